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

const upsertHistorySQL = `INSERT INTO market_history (
	"zip",
	"event_date",
	"home_value",
	"inventory",
	"homes_sold",
	"median_days_on_market",
	"sale_to_list_ratio",
	"months_of_supply",
	"price_mom_pct",
	"price_yoy_pct",
	"inventory_mom_pct",
	"sales_mom_pct",
	"temperature",
	"market_score",
	"created_at"
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
) ON CONFLICT (zip, event_date) DO UPDATE SET
	home_value = EXCLUDED.home_value,
	inventory = EXCLUDED.inventory,
	homes_sold = EXCLUDED.homes_sold,
	median_days_on_market = EXCLUDED.median_days_on_market,
	sale_to_list_ratio = EXCLUDED.sale_to_list_ratio,
	months_of_supply = EXCLUDED.months_of_supply,
	price_mom_pct = EXCLUDED.price_mom_pct,
	price_yoy_pct = EXCLUDED.price_yoy_pct,
	inventory_mom_pct = EXCLUDED.inventory_mom_pct,
	sales_mom_pct = EXCLUDED.sales_mom_pct,
	temperature = EXCLUDED.temperature,
	market_score = EXCLUDED.market_score,
	created_at = EXCLUDED.created_at`

// UpsertHistory writes one daily snapshot, overwriting any existing row for
// the same (zip, date).
func (pg *Postgres) UpsertHistory(ctx context.Context, snap *data.MarketHistory) error {
	_, err := pg.Pool.Exec(ctx, upsertHistorySQL, snap.Zip, snap.EventDate,
		snap.HomeValue, snap.Inventory, snap.HomesSold, snap.MedianDaysOnMarket,
		snap.SaleToListRatio, snap.MonthsOfSupply, snap.PriceMoMPct, snap.PriceYoYPct,
		snap.InventoryMoMPct, snap.SalesMoMPct, snap.Temperature, snap.MarketScore,
		snap.CreatedAt)
	return err
}

const selectHistorySQL = `SELECT zip, event_date, home_value, inventory, homes_sold,
	median_days_on_market, sale_to_list_ratio, months_of_supply, price_mom_pct,
	price_yoy_pct, inventory_mom_pct, sales_mom_pct, temperature, market_score, created_at
FROM market_history`

// HistoryAround returns the stored snapshot for a zip nearest to target
// within the given tolerance, or nil when no row falls inside the window.
func (pg *Postgres) HistoryAround(ctx context.Context, zip string, target time.Time, tolerance time.Duration) (*data.MarketHistory, error) {
	row := &data.MarketHistory{}
	err := pgxscan.Get(ctx, pg.Pool, row,
		selectHistorySQL+` WHERE zip = $1 AND event_date BETWEEN $2 AND $3
		ORDER BY abs(extract(epoch FROM (event_date::timestamp - $4::timestamp))) LIMIT 1`,
		zip, target.Add(-tolerance), target.Add(tolerance), target)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}

// HistoryRange returns snapshots for a zip between from and to inclusive,
// in ascending date order. This is the read contract consumed by the
// dashboard layer.
func (pg *Postgres) HistoryRange(ctx context.Context, zip string, from, to time.Time) ([]*data.MarketHistory, error) {
	var rows []*data.MarketHistory
	err := pgxscan.Select(ctx, pg.Pool, &rows,
		selectHistorySQL+` WHERE zip = $1 AND event_date BETWEEN $2 AND $3 ORDER BY event_date`,
		zip, from, to)
	return rows, err
}

// LatestSnapshotDate returns the date of the newest snapshot across all
// zips. Used by the startup freshness check; returns the zero time when the
// history table is empty.
func (pg *Postgres) LatestSnapshotDate(ctx context.Context) (time.Time, error) {
	var latest *time.Time
	if err := pg.Pool.QueryRow(ctx, `SELECT max(event_date) FROM market_history`).Scan(&latest); err != nil {
		return time.Time{}, err
	}

	if latest == nil {
		return time.Time{}, nil
	}

	return *latest, nil
}
