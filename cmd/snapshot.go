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

	"github.com/hometrack/htdata/snapshot"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write today's market-history snapshot",
	Long: `The snapshot sub-command writes one market-history row per covered zip
for today: current market figures, growth against comparable historical
snapshots, and the market-temperature classification. Safe to re-run; the
day's rows are overwritten in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		pg, refSet := openStore(ctx)
		defer pg.Close()

		service := &snapshot.Service{Zips: refSet, Store: pg}

		report, err := service.CreateDailySnapshot(ctx)
		logReport("snapshot", report, err)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
