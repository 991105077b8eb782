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

// ZipMetric is the derived-metrics record for one zip code on one date.
// Each field is independently nullable; which fields are populated depends
// on which raw sources had data when the metrics engine ran.
type ZipMetric struct {
	Zip       string    `db:"zip"`
	EventDate time.Time `db:"event_date"`

	ValuationRatio      *float64 `db:"valuation_ratio"`
	OvervaluationPct    *float64 `db:"overvaluation_pct"`
	MonthlyPayment      *float64 `db:"monthly_payment"`
	MortgageToIncomePct *float64 `db:"mortgage_to_income_pct"`
	SalaryToAfford      *float64 `db:"salary_to_afford"`
	CapRate             *float64 `db:"cap_rate"`
	BuyVsRentRatio      *float64 `db:"buy_vs_rent_ratio"`
	Forecast12MPct      *float64 `db:"forecast_12m_pct"`

	InvestorScore     *float64 `db:"investor_score"`
	GrowthScore       *float64 `db:"growth_score"`
	MarketHealthScore *float64 `db:"market_health_score"`

	ComputedAt time.Time `db:"computed_at"`
}
