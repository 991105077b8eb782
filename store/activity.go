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

const upsertActivitySQL = `INSERT INTO market_activity (
	"zip",
	"period_start",
	"inventory",
	"homes_sold",
	"median_days_on_market",
	"sale_to_list_ratio",
	"price_drop_pct",
	"months_of_supply",
	"fetched_at"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9
) ON CONFLICT (zip, period_start) DO UPDATE SET
	inventory = EXCLUDED.inventory,
	homes_sold = EXCLUDED.homes_sold,
	median_days_on_market = EXCLUDED.median_days_on_market,
	sale_to_list_ratio = EXCLUDED.sale_to_list_ratio,
	price_drop_pct = EXCLUDED.price_drop_pct,
	months_of_supply = EXCLUDED.months_of_supply,
	fetched_at = EXCLUDED.fetched_at`

// UpsertActivity writes a batch of market-activity observations,
// overwriting any existing row for the same (zip, period).
func (pg *Postgres) UpsertActivity(ctx context.Context, rows []*data.MarketActivity) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertActivitySQL, row.Zip, row.PeriodStart, row.Inventory,
			row.HomesSold, row.MedianDaysOnMarket, row.SaleToListRatio,
			row.PriceDropPct, row.MonthsOfSupply, row.FetchedAt)
	}

	return pg.Pool.SendBatch(ctx, batch).Close()
}

// LatestActivity returns the most recent market-activity observation for a
// zip, or nil when none exists.
func (pg *Postgres) LatestActivity(ctx context.Context, zip string) (*data.MarketActivity, error) {
	row := &data.MarketActivity{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		`SELECT zip, period_start, inventory, homes_sold, median_days_on_market,
			sale_to_list_ratio, price_drop_pct, months_of_supply, fetched_at
		FROM market_activity WHERE zip = $1 ORDER BY period_start DESC LIMIT 1`, zip)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}
