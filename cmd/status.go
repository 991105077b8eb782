// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display freshness and row counts for the analytics database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		pg, _ := openStore(ctx)
		defer pg.Close()

		summary, err := pg.Summarize(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not summarize database")
		}

		fmt.Printf("Covered zip codes:    %d\n", summary.Zips)
		fmt.Printf("Home-value rows:      %d (latest %s)\n", summary.HomeValueRows, age(summary.LatestHomeValue))
		fmt.Printf("Demographic rows:     %d\n", summary.DemographicRows)
		fmt.Printf("Market-activity rows: %d\n", summary.ActivityRows)
		fmt.Printf("Derived-metric rows:  %d (latest %s)\n", summary.MetricRows, age(summary.LatestMetricDate))
		fmt.Printf("History snapshots:    %d (latest %s)\n", summary.HistoryRows, age(summary.LatestSnapshot))
	},
}

func age(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return timeago.English.Format(*t)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
