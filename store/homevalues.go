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
package store

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/hometrack/htdata/data"
)

const upsertHomeValueSQL = `INSERT INTO home_values (
	"zip",
	"event_date",
	"home_value",
	"home_value_sfr",
	"home_value_condo",
	"rent_value",
	"fetched_at"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7
) ON CONFLICT (zip, event_date) DO UPDATE SET
	home_value = EXCLUDED.home_value,
	home_value_sfr = EXCLUDED.home_value_sfr,
	home_value_condo = EXCLUDED.home_value_condo,
	rent_value = EXCLUDED.rent_value,
	fetched_at = EXCLUDED.fetched_at`

// UpsertHomeValues writes a batch of value-index observations, overwriting
// any existing row for the same (zip, month).
func (pg *Postgres) UpsertHomeValues(ctx context.Context, rows []*data.HomeValue) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertHomeValueSQL, row.Zip, row.EventDate, row.HomeValue,
			row.HomeValueSFR, row.HomeValueCondo, row.RentValue, row.FetchedAt)
	}

	return pg.Pool.SendBatch(ctx, batch).Close()
}

// HomeValues returns all value-index observations for a zip in ascending
// date order.
func (pg *Postgres) HomeValues(ctx context.Context, zip string) ([]*data.HomeValue, error) {
	var rows []*data.HomeValue
	err := pgxscan.Select(ctx, pg.Pool, &rows,
		`SELECT zip, event_date, home_value, home_value_sfr, home_value_condo, rent_value, fetched_at
		FROM home_values WHERE zip = $1 ORDER BY event_date`, zip)
	return rows, err
}

// LatestHomeValue returns the most recent value-index observation for a
// zip, or nil when none exists.
func (pg *Postgres) LatestHomeValue(ctx context.Context, zip string) (*data.HomeValue, error) {
	row := &data.HomeValue{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		`SELECT zip, event_date, home_value, home_value_sfr, home_value_condo, rent_value, fetched_at
		FROM home_values WHERE zip = $1 ORDER BY event_date DESC LIMIT 1`, zip)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}
