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

	"github.com/hometrack/htdata/adapter"
	"github.com/hometrack/htdata/data"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:       "refresh [homevalues|demographics|activity|all]",
	Short:     "Run source adapters to pull raw data",
	ValidArgs: []string{"homevalues", "demographics", "activity", "all"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `The refresh sub-command pulls raw data from one external source (or all
of them) and upserts it into the raw stores. Adapters are idempotent: rows
are keyed by (zip, period) and re-ingestion overwrites in place. One bad
batch or one unavailable source never aborts the other adapters.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		pg, refSet := openStore(ctx)
		defer pg.Close()

		adapters := []adapter.Adapter{
			&adapter.HomeValue{Zips: refSet, Store: pg},
			&adapter.Demographic{Zips: refSet, Store: pg},
			&adapter.Activity{Zips: refSet, Store: pg},
		}

		for _, source := range adapters {
			if args[0] != "all" && args[0] != source.Name() {
				continue
			}

			report, err := source.Refresh(ctx)
			logReport(source.Name(), report, err)
		}
	},
}

func logReport(name string, report *data.RunReport, err error) {
	logger := log.With().Str("Adapter", name).Str("RunID", report.RunID.String()).Logger()

	if err != nil {
		logger.Error().Err(err).Msg("adapter run failed")
	}

	for _, msg := range report.ErrorStrings() {
		logger.Warn().Msg(msg)
	}

	logger.Info().Int("RowsProcessed", report.RowsProcessed).
		Str("RunTime", report.Duration().String()).Msg("adapter run complete")
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
