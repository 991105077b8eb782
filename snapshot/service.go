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

// Package snapshot writes the daily per-zip market-history record: current
// market figures, growth against comparable historical snapshots, and the
// market-temperature classification.
package snapshot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

// Comparable-snapshot lookback windows. A month-ago row must fall within
// three days of exactly thirty days prior; a year-ago row within seven
// days of 365 days prior.
const (
	monthLookback  = 30 * 24 * time.Hour
	monthTolerance = 3 * 24 * time.Hour
	yearLookback   = 365 * 24 * time.Hour
	yearTolerance  = 7 * 24 * time.Hour
)

// Store is the persistence surface the snapshot service needs.
type Store interface {
	LatestHomeValue(ctx context.Context, zip string) (*data.HomeValue, error)
	LatestActivity(ctx context.Context, zip string) (*data.MarketActivity, error)
	HistoryAround(ctx context.Context, zip string, target time.Time, tolerance time.Duration) (*data.MarketHistory, error)
	UpsertHistory(ctx context.Context, snap *data.MarketHistory) error
}

// Service creates one history snapshot per covered zip per day.
type Service struct {
	Zips  *geo.ReferenceSet
	Store Store
}

// CreateDailySnapshot walks the reference set and upserts today's snapshot
// for each zip. A zip with no comparable history still gets a snapshot
// with nil growth fields; per-zip failures are recorded and the loop
// continues. Re-running on the same day overwrites in place.
func (service *Service) CreateDailySnapshot(ctx context.Context) (*data.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	report := data.NewRunReport("snapshot")
	defer report.Finish()

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, zip := range service.Zips.Zips() {
		snap, err := service.buildSnapshot(ctx, zip, today)
		if err != nil {
			report.AddError("snapshot: %s: %v", zip, err)
			continue
		}

		if err := service.Store.UpsertHistory(ctx, snap); err != nil {
			report.AddError("snapshot: %s: upsert failed: %v", zip, err)
			continue
		}

		report.AddRows(1)
	}

	logger.Info().Int("SnapshotsCreated", report.RowsProcessed).
		Int("NumErrors", len(report.ErrorStrings())).Msg("daily snapshot complete")

	return report, nil
}

func (service *Service) buildSnapshot(ctx context.Context, zip string, today time.Time) (*data.MarketHistory, error) {
	latestValue, err := service.Store.LatestHomeValue(ctx, zip)
	if err != nil {
		return nil, err
	}

	activity, err := service.Store.LatestActivity(ctx, zip)
	if err != nil {
		return nil, err
	}

	monthAgo, err := service.Store.HistoryAround(ctx, zip, today.Add(-monthLookback), monthTolerance)
	if err != nil {
		return nil, err
	}

	yearAgo, err := service.Store.HistoryAround(ctx, zip, today.Add(-yearLookback), yearTolerance)
	if err != nil {
		return nil, err
	}

	snap := &data.MarketHistory{
		Zip:       zip,
		EventDate: today,
		CreatedAt: time.Now(),
	}

	if latestValue != nil {
		snap.HomeValue = latestValue.HomeValue
	}

	if activity != nil {
		snap.Inventory = activity.Inventory
		snap.HomesSold = activity.HomesSold
		snap.MedianDaysOnMarket = activity.MedianDaysOnMarket
		snap.SaleToListRatio = activity.SaleToListRatio
		snap.MonthsOfSupply = activity.MonthsOfSupply
	}

	if monthAgo != nil {
		snap.PriceMoMPct = data.GrowthPct(snap.HomeValue, monthAgo.HomeValue)
		snap.InventoryMoMPct = data.GrowthPctCounts(snap.Inventory, monthAgo.Inventory)
		snap.SalesMoMPct = data.GrowthPctCounts(snap.HomesSold, monthAgo.HomesSold)
	}

	if yearAgo != nil {
		snap.PriceYoYPct = data.GrowthPct(snap.HomeValue, yearAgo.HomeValue)
	}

	snap.MarketScore = TemperatureScore(snap.MedianDaysOnMarket, snap.SaleToListRatio,
		snap.MonthsOfSupply, snap.InventoryMoMPct)
	snap.Temperature = TemperatureLabel(snap.MarketScore)

	return snap, nil
}
