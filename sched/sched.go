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

// Package sched runs the pipeline stages on their configured cadences. The
// scheduler is a thin loop over a job table; all business logic lives in
// the stage entry points it invokes.
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/healthcheck"
)

// Job is one named pipeline stage with its cadence. Run must be idempotent:
// the scheduler may invoke it again after a missed or failed slot.
type Job struct {
	Name          string
	Every         time.Duration
	HealthCheckID string
	Run           func(ctx context.Context) (*data.RunReport, error)
}

// Scheduler drives the job table. LatestSnapshot reports the age of the
// newest history row for the startup freshness check; jobs named in
// OnStale are run immediately when that age exceeds StalenessThreshold.
type Scheduler struct {
	Jobs []Job

	StalenessThreshold time.Duration
	LatestSnapshot     func(ctx context.Context) (time.Time, error)
	OnStale            []string
}

// Start runs the freshness check and then ticks every job on its cadence
// until the context is canceled.
func (sched *Scheduler) Start(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	sched.checkFreshness(ctx)

	for _, job := range sched.Jobs {
		job := job
		go func() {
			ticker := time.NewTicker(job.Every)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sched.runJob(ctx, job)
				}
			}
		}()
	}

	logger.Info().Int("NumJobs", len(sched.Jobs)).Msg("scheduler started")
	<-ctx.Done()
}

// RunNow executes the named job immediately. Used by the manual trigger
// commands and the freshness check.
func (sched *Scheduler) RunNow(ctx context.Context, name string) bool {
	for _, job := range sched.Jobs {
		if job.Name == name {
			sched.runJob(ctx, job)
			return true
		}
	}
	return false
}

// checkFreshness recomputes derived data at startup when the newest
// snapshot is older than the configured threshold. This self-heals after a
// missed or failed scheduled run.
func (sched *Scheduler) checkFreshness(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	if sched.LatestSnapshot == nil || sched.StalenessThreshold <= 0 {
		return
	}

	latest, err := sched.LatestSnapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("freshness check failed")
		return
	}

	age := time.Since(latest)
	if age < sched.StalenessThreshold {
		return
	}

	logger.Warn().Str("Age", age.String()).Msg("derived data is stale, recomputing")
	for _, name := range sched.OnStale {
		sched.RunNow(ctx, name)
	}
}

func (sched *Scheduler) runJob(ctx context.Context, job Job) {
	logger := zerolog.Ctx(ctx).With().Str("Job", job.Name).Logger()

	report, err := job.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("job failed")
	} else {
		logger.Info().Int("RowsProcessed", report.RowsProcessed).
			Int("NumErrors", len(report.ErrorStrings())).
			Str("RunTime", report.Duration().String()).Msg("job finished")
	}

	if job.HealthCheckID == "" {
		return
	}

	if pingErr := healthcheck.Ping(job.HealthCheckID, err == nil); pingErr != nil {
		logger.Error().Err(pingErr).Msg("health check ping failed")
	}
}
