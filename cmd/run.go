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
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/adapter"
	"github.com/hometrack/htdata/metrics"
	"github.com/hometrack/htdata/sched"
	"github.com/hometrack/htdata/snapshot"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline as a daemon",
	Long: `The run sub-command starts every pipeline stage on its configured
cadence and blocks until interrupted. At startup the age of the newest
snapshot is checked against the staleness threshold; derived data older
than the threshold is recomputed immediately, which self-heals after a
missed scheduled run.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ctx = log.Logger.WithContext(ctx)

		pg, refSet := openStore(ctx)
		defer pg.Close()

		homeValues := &adapter.HomeValue{Zips: refSet, Store: pg}
		demographics := &adapter.Demographic{Zips: refSet, Store: pg}
		activity := &adapter.Activity{Zips: refSet, Store: pg}
		engine := &metrics.Engine{Zips: refSet, Store: pg, Config: metrics.FromViper()}
		snapshots := &snapshot.Service{Zips: refSet, Store: pg}

		scheduler := &sched.Scheduler{
			Jobs: []sched.Job{
				{Name: homeValues.Name(), Every: cadence("schedule.homevalues"), HealthCheckID: checkID("homevalues"), Run: homeValues.Refresh},
				{Name: demographics.Name(), Every: cadence("schedule.demographics"), HealthCheckID: checkID("demographics"), Run: demographics.Refresh},
				{Name: activity.Name(), Every: cadence("schedule.activity"), HealthCheckID: checkID("activity"), Run: activity.Refresh},
				{Name: "metrics", Every: cadence("schedule.metrics"), HealthCheckID: checkID("metrics"), Run: engine.Refresh},
				{Name: "snapshot", Every: cadence("schedule.snapshot"), HealthCheckID: checkID("snapshot"), Run: snapshots.CreateDailySnapshot},
			},
			StalenessThreshold: cadence("schedule.staleness"),
			LatestSnapshot:     pg.LatestSnapshotDate,
			OnStale:            []string{"metrics", "snapshot"},
		}

		scheduler.Start(ctx)
	},
}

func cadence(key string) time.Duration {
	every := viper.GetDuration(key)
	if every <= 0 {
		every = 24 * time.Hour
	}
	return every
}

func checkID(stage string) string {
	return viper.GetString("healthchecks.checks." + stage)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
