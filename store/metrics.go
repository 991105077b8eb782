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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/hometrack/htdata/data"
)

const upsertMetricSQL = `INSERT INTO zip_metrics (
	"zip",
	"event_date",
	"valuation_ratio",
	"overvaluation_pct",
	"monthly_payment",
	"mortgage_to_income_pct",
	"salary_to_afford",
	"cap_rate",
	"buy_vs_rent_ratio",
	"forecast_12m_pct",
	"investor_score",
	"growth_score",
	"market_health_score",
	"computed_at"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
) ON CONFLICT (zip, event_date) DO UPDATE SET
	valuation_ratio = EXCLUDED.valuation_ratio,
	overvaluation_pct = EXCLUDED.overvaluation_pct,
	monthly_payment = EXCLUDED.monthly_payment,
	mortgage_to_income_pct = EXCLUDED.mortgage_to_income_pct,
	salary_to_afford = EXCLUDED.salary_to_afford,
	cap_rate = EXCLUDED.cap_rate,
	buy_vs_rent_ratio = EXCLUDED.buy_vs_rent_ratio,
	forecast_12m_pct = EXCLUDED.forecast_12m_pct,
	investor_score = EXCLUDED.investor_score,
	growth_score = EXCLUDED.growth_score,
	market_health_score = EXCLUDED.market_health_score,
	computed_at = EXCLUDED.computed_at`

// UpsertMetric writes one derived-metrics record, overwriting any existing
// row for the same (zip, date).
func (pg *Postgres) UpsertMetric(ctx context.Context, metric *data.ZipMetric) error {
	_, err := pg.Pool.Exec(ctx, upsertMetricSQL, metric.Zip, metric.EventDate,
		metric.ValuationRatio, metric.OvervaluationPct, metric.MonthlyPayment,
		metric.MortgageToIncomePct, metric.SalaryToAfford, metric.CapRate,
		metric.BuyVsRentRatio, metric.Forecast12MPct, metric.InvestorScore,
		metric.GrowthScore, metric.MarketHealthScore, metric.ComputedAt)
	return err
}

const selectMetricSQL = `SELECT zip, event_date, valuation_ratio, overvaluation_pct,
	monthly_payment, mortgage_to_income_pct, salary_to_afford, cap_rate,
	buy_vs_rent_ratio, forecast_12m_pct, investor_score, growth_score,
	market_health_score, computed_at
FROM zip_metrics`

// MetricOn returns the derived-metrics record for a zip on a specific date,
// or nil when none exists. This is the read contract consumed by the
// dashboard layer.
func (pg *Postgres) MetricOn(ctx context.Context, zip string, date time.Time) (*data.ZipMetric, error) {
	row := &data.ZipMetric{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		selectMetricSQL+` WHERE zip = $1 AND event_date = $2`, zip, date)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}

// LatestMetric returns the most recent derived-metrics record for a zip, or
// nil when none exists.
func (pg *Postgres) LatestMetric(ctx context.Context, zip string) (*data.ZipMetric, error) {
	row := &data.ZipMetric{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		selectMetricSQL+` WHERE zip = $1 ORDER BY event_date DESC LIMIT 1`, zip)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}
