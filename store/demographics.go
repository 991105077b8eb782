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

const upsertDemographicSQL = `INSERT INTO demographics (
	"zip",
	"year",
	"population",
	"median_household_income",
	"median_age",
	"owner_occupied",
	"renter_occupied",
	"total_households",
	"poverty_count",
	"bachelors_or_higher",
	"adults_25_plus",
	"remote_workers",
	"total_workers",
	"median_year_built",
	"homeownership_rate",
	"poverty_rate",
	"remote_work_rate",
	"degree_rate",
	"fetched_at"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
) ON CONFLICT (zip, year) DO UPDATE SET
	population = EXCLUDED.population,
	median_household_income = EXCLUDED.median_household_income,
	median_age = EXCLUDED.median_age,
	owner_occupied = EXCLUDED.owner_occupied,
	renter_occupied = EXCLUDED.renter_occupied,
	total_households = EXCLUDED.total_households,
	poverty_count = EXCLUDED.poverty_count,
	bachelors_or_higher = EXCLUDED.bachelors_or_higher,
	adults_25_plus = EXCLUDED.adults_25_plus,
	remote_workers = EXCLUDED.remote_workers,
	total_workers = EXCLUDED.total_workers,
	median_year_built = EXCLUDED.median_year_built,
	homeownership_rate = EXCLUDED.homeownership_rate,
	poverty_rate = EXCLUDED.poverty_rate,
	remote_work_rate = EXCLUDED.remote_work_rate,
	degree_rate = EXCLUDED.degree_rate,
	fetched_at = EXCLUDED.fetched_at`

// UpsertDemographics writes a batch of survey observations, overwriting any
// existing row for the same (zip, year).
func (pg *Postgres) UpsertDemographics(ctx context.Context, rows []*data.Demographic) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertDemographicSQL, row.Zip, row.Year, row.Population,
			row.MedianHouseholdIncome, row.MedianAge, row.OwnerOccupied, row.RenterOccupied,
			row.TotalHouseholds, row.PovertyCount, row.BachelorsOrHigher, row.Adults25Plus,
			row.RemoteWorkers, row.TotalWorkers, row.MedianYearBuilt, row.HomeownershipRate,
			row.PovertyRate, row.RemoteWorkRate, row.DegreeRate, row.FetchedAt)
	}

	return pg.Pool.SendBatch(ctx, batch).Close()
}

const selectDemographicSQL = `SELECT zip, year, population, median_household_income, median_age,
	owner_occupied, renter_occupied, total_households, poverty_count, bachelors_or_higher,
	adults_25_plus, remote_workers, total_workers, median_year_built, homeownership_rate,
	poverty_rate, remote_work_rate, degree_rate, fetched_at
FROM demographics`

// Demographics returns all survey observations for a zip in ascending year
// order.
func (pg *Postgres) Demographics(ctx context.Context, zip string) ([]*data.Demographic, error) {
	var rows []*data.Demographic
	err := pgxscan.Select(ctx, pg.Pool, &rows,
		selectDemographicSQL+` WHERE zip = $1 ORDER BY year`, zip)
	return rows, err
}

// LatestDemographic returns the most recent survey observation for a zip,
// or nil when none exists.
func (pg *Postgres) LatestDemographic(ctx context.Context, zip string) (*data.Demographic, error) {
	row := &data.Demographic{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		selectDemographicSQL+` WHERE zip = $1 ORDER BY year DESC LIMIT 1`, zip)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}
