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

// Market temperature labels ordered hottest to coldest.
const (
	TempHot      = "Hot"
	TempWarm     = "Warm"
	TempBalanced = "Balanced"
	TempCool     = "Cool"
	TempCold     = "Cold"
)

// MarketHistory is the daily point-in-time snapshot for one zip code:
// current market figures, growth against comparable historical snapshots,
// and the market-temperature classification. Growth fields are nil when no
// comparable snapshot exists within tolerance.
type MarketHistory struct {
	Zip       string    `db:"zip"`
	EventDate time.Time `db:"event_date"`

	HomeValue          *float64 `db:"home_value"`
	Inventory          *int64   `db:"inventory"`
	HomesSold          *int64   `db:"homes_sold"`
	MedianDaysOnMarket *float64 `db:"median_days_on_market"`
	SaleToListRatio    *float64 `db:"sale_to_list_ratio"`
	MonthsOfSupply     *float64 `db:"months_of_supply"`

	PriceMoMPct     *float64 `db:"price_mom_pct"`
	PriceYoYPct     *float64 `db:"price_yoy_pct"`
	InventoryMoMPct *float64 `db:"inventory_mom_pct"`
	SalesMoMPct     *float64 `db:"sales_mom_pct"`

	Temperature string  `db:"temperature"`
	MarketScore float64 `db:"market_score"`

	CreatedAt time.Time `db:"created_at"`
}
