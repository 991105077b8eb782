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

// Package store implements the persistent stores backing the pipeline. All
// writes are expressed as upserts keyed by (zip, period) so that every
// stage is safe to re-run. Consumers declare their own narrow interfaces
// over the subset of methods they use.
package store

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres provides access to all pipeline tables through a single
// connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// New connects to the database identified by dbURL.
func New(ctx context.Context, dbURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{Pool: pool}, nil
}

// Close shuts down the connection pool.
func (pg *Postgres) Close() {
	pg.Pool.Close()
}

// Zips returns the stored geo reference set in ascending order.
func (pg *Postgres) Zips(ctx context.Context) ([]string, error) {
	var zips []string
	err := pgxscan.Select(ctx, pg.Pool, &zips, `SELECT zip FROM zip_codes ORDER BY zip`)
	return zips, err
}

// SeedZips inserts the reference set, ignoring members that already exist.
// The reference set is append-only; the pipeline never deletes from it.
func (pg *Postgres) SeedZips(ctx context.Context, zips []string) error {
	conn, err := pg.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, zip := range zips {
		if _, err := conn.Exec(ctx,
			`INSERT INTO zip_codes (zip) VALUES ($1) ON CONFLICT (zip) DO NOTHING`, zip); err != nil {
			return err
		}
	}

	return nil
}

// Summary reports per-table row counts and latest observation dates for the
// status command.
type Summary struct {
	Zips             int64
	HomeValueRows    int64
	DemographicRows  int64
	ActivityRows     int64
	MetricRows       int64
	HistoryRows      int64
	LatestHomeValue  *time.Time
	LatestMetricDate *time.Time
	LatestSnapshot   *time.Time
}

// Summarize collects library-wide statistics.
func (pg *Postgres) Summarize(ctx context.Context) (*Summary, error) {
	conn, err := pg.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	summary := &Summary{}

	counts := []struct {
		sql  string
		dest *int64
	}{
		{`SELECT count(*) FROM zip_codes`, &summary.Zips},
		{`SELECT count(*) FROM home_values`, &summary.HomeValueRows},
		{`SELECT count(*) FROM demographics`, &summary.DemographicRows},
		{`SELECT count(*) FROM market_activity`, &summary.ActivityRows},
		{`SELECT count(*) FROM zip_metrics`, &summary.MetricRows},
		{`SELECT count(*) FROM market_history`, &summary.HistoryRows},
	}

	for _, c := range counts {
		if err := conn.QueryRow(ctx, c.sql).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	dates := []struct {
		sql  string
		dest **time.Time
	}{
		{`SELECT max(event_date) FROM home_values`, &summary.LatestHomeValue},
		{`SELECT max(event_date) FROM zip_metrics`, &summary.LatestMetricDate},
		{`SELECT max(event_date) FROM market_history`, &summary.LatestSnapshot},
	}

	for _, d := range dates {
		if err := conn.QueryRow(ctx, d.sql).Scan(d.dest); err != nil {
			return nil, err
		}
	}

	return summary, nil
}
