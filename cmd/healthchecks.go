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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/healthcheck"
)

// stage name → healthchecks.io cron schedule, matching the default
// cadences in setDefaults
var stageSchedules = map[string]string{
	"homevalues":   "0 2 * * 0",
	"demographics": "0 2 1 * *",
	"activity":     "0 2 * * *",
	"metrics":      "0 3 * * *",
	"snapshot":     "0 4 * * *",
}

// healthchecksCmd represents the healthchecks command
var healthchecksCmd = &cobra.Command{
	Use:   "healthchecks",
	Short: "Manage the healthchecks.io checks for the pipeline stages",
}

var healthchecksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register one check per pipeline stage",
	Long: `Registers a healthchecks.io check for every pipeline stage using the
stage's scheduled cadence. Add the printed check ids to the
healthchecks.checks section of the config file so the daemon pings them
after each run.`,
	Run: func(cmd *cobra.Command, args []string) {
		if viper.GetString("healthchecks.apikey") == "" {
			log.Fatal().Msg("no healthchecks.io API key; set healthchecks.apikey")
		}

		for stage, schedule := range stageSchedules {
			if existing := checkID(stage); existing != "" {
				log.Info().Str("Stage", stage).Str("CheckID", existing).Msg("check already configured, skipping")
				continue
			}

			id, err := healthcheck.Create("htdata "+stage, []string{"htdata", stage}, schedule)
			if err != nil {
				log.Fatal().Err(err).Str("Stage", stage).Msg("could not create check")
			}

			fmt.Printf("healthchecks.checks.%s = %q\n", stage, id)
		}
	},
}

var healthchecksDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the configured checks",
	Run: func(cmd *cobra.Command, args []string) {
		for stage := range stageSchedules {
			id := checkID(stage)
			if id == "" {
				continue
			}

			if err := healthcheck.Delete(id); err != nil {
				log.Error().Err(err).Str("Stage", stage).Str("CheckID", id).Msg("could not delete check")
				continue
			}

			log.Info().Str("Stage", stage).Str("CheckID", id).Msg("check deleted")
		}
	},
}

func init() {
	rootCmd.AddCommand(healthchecksCmd)
	healthchecksCmd.AddCommand(healthchecksCreateCmd)
	healthchecksCmd.AddCommand(healthchecksDeleteCmd)
}
