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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hometrack/htdata/metrics"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Derive per-zip metrics from the latest raw data",
	Long: `The metrics sub-command recomputes the derived metrics record for every
covered zip from the latest raw observation per source. Metrics that depend
on an unavailable source are stored as null; re-running on the same day
overwrites the day's records.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		pg, refSet := openStore(ctx)
		defer pg.Close()

		engine := &metrics.Engine{
			Zips:   refSet,
			Store:  pg,
			Config: metrics.FromViper(),
		}

		report, err := engine.Refresh(ctx)
		logReport("metrics", report, err)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
