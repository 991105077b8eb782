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
package data

import "time"

// Demographic is one survey-vintage observation for a zip code. Raw counts
// come straight from the survey; the rate fields are derived by the adapter
// with ComputeRates before the row is stored.
type Demographic struct {
	Zip  string `db:"zip"`
	Year int    `db:"year"`

	Population            *int64   `db:"population"`
	MedianHouseholdIncome *float64 `db:"median_household_income"`
	MedianAge             *float64 `db:"median_age"`
	OwnerOccupied         *int64   `db:"owner_occupied"`
	RenterOccupied        *int64   `db:"renter_occupied"`
	TotalHouseholds       *int64   `db:"total_households"`
	PovertyCount          *int64   `db:"poverty_count"`
	BachelorsOrHigher     *int64   `db:"bachelors_or_higher"`
	Adults25Plus          *int64   `db:"adults_25_plus"`
	RemoteWorkers         *int64   `db:"remote_workers"`
	TotalWorkers          *int64   `db:"total_workers"`
	MedianYearBuilt       *int64   `db:"median_year_built"`

	HomeownershipRate *float64 `db:"homeownership_rate"`
	PovertyRate       *float64 `db:"poverty_rate"`
	RemoteWorkRate    *float64 `db:"remote_work_rate"`
	DegreeRate        *float64 `db:"degree_rate"`

	FetchedAt time.Time `db:"fetched_at"`
}

// ComputeRates fills in the derived rate fields from raw counts. A nil or
// zero denominator leaves the rate nil.
func (demo *Demographic) ComputeRates() {
	demo.HomeownershipRate = pctOf(DivCounts(demo.OwnerOccupied, demo.TotalHouseholds))
	demo.PovertyRate = pctOf(DivCounts(demo.PovertyCount, demo.Population))
	demo.RemoteWorkRate = pctOf(DivCounts(demo.RemoteWorkers, demo.TotalWorkers))
	demo.DegreeRate = pctOf(DivCounts(demo.BachelorsOrHigher, demo.Adults25Plus))
}

func pctOf(ratio *float64) *float64 {
	if ratio == nil {
		return nil
	}

	pct := *ratio * 100
	return &pct
}
