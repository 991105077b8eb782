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

// HomeValue is one monthly value-index observation for a zip code. The
// overall index, the single-family and condo segment indexes, and the rent
// index arrive as separate downloads and are merged into a single row per
// (zip, month) before storage.
type HomeValue struct {
	Zip       string    `db:"zip"`
	EventDate time.Time `db:"event_date"`

	HomeValue      *float64 `db:"home_value"`
	HomeValueSFR   *float64 `db:"home_value_sfr"`
	HomeValueCondo *float64 `db:"home_value_condo"`
	RentValue      *float64 `db:"rent_value"`

	FetchedAt time.Time `db:"fetched_at"`
}

// Empty reports whether the observation carries no figures at all; such
// rows are dropped rather than stored.
func (hv *HomeValue) Empty() bool {
	return hv.HomeValue == nil && hv.HomeValueSFR == nil && hv.HomeValueCondo == nil && hv.RentValue == nil
}
