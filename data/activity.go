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

// MarketActivity is one reporting-period observation of listing and sale
// activity for a zip code.
type MarketActivity struct {
	Zip         string    `db:"zip"`
	PeriodStart time.Time `db:"period_start"`

	Inventory          *int64   `db:"inventory"`
	HomesSold          *int64   `db:"homes_sold"`
	MedianDaysOnMarket *float64 `db:"median_days_on_market"`
	SaleToListRatio    *float64 `db:"sale_to_list_ratio"`
	PriceDropPct       *float64 `db:"price_drop_pct"`
	MonthsOfSupply     *float64 `db:"months_of_supply"`

	FetchedAt time.Time `db:"fetched_at"`
}

// Empty reports whether the observation carries no figures at all.
func (act *MarketActivity) Empty() bool {
	return act.Inventory == nil && act.HomesSold == nil && act.MedianDaysOnMarket == nil &&
		act.SaleToListRatio == nil && act.PriceDropPct == nil && act.MonthsOfSupply == nil
}
