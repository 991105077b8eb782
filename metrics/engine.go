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

// Package metrics derives the per-zip financial metrics from the latest
// raw observations. Every metric is independently nullable; which fields a
// record carries depends on which raw sources had data for that zip when
// the engine ran.
package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

// Store is the persistence surface the engine needs: the three raw stores
// for reading and the derived-metrics store for writing.
type Store interface {
	HomeValues(ctx context.Context, zip string) ([]*data.HomeValue, error)
	Demographics(ctx context.Context, zip string) ([]*data.Demographic, error)
	LatestActivity(ctx context.Context, zip string) (*data.MarketActivity, error)
	UpsertMetric(ctx context.Context, metric *data.ZipMetric) error
}

// Engine computes one derived-metrics record per covered zip per day.
type Engine struct {
	Zips   *geo.ReferenceSet
	Store  Store
	Config Config
}

// Refresh iterates the reference set and upserts a metrics record for each
// zip that has home-value data. One zip's failure is recorded on the report
// and never aborts the run. Re-running on the same day overwrites the
// day's records in place.
func (engine *Engine) Refresh(ctx context.Context) (*data.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	report := data.NewRunReport("metrics")
	defer report.Finish()

	today := time.Now().UTC().Truncate(24 * time.Hour)

	workers := engine.Config.Workers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, zip := range engine.Zips.Zips() {
		zip := zip
		group.Go(func() error {
			metric, err := engine.computeZip(groupCtx, zip, today)
			if err != nil {
				report.AddError("metrics: %s: %v", zip, err)
				return nil
			}

			if metric == nil {
				// no home-value data, nothing computable
				return nil
			}

			if err := engine.Store.UpsertMetric(groupCtx, metric); err != nil {
				report.AddError("metrics: %s: upsert failed: %v", zip, err)
				return nil
			}

			report.AddRows(1)
			return nil
		})
	}

	// workers never return errors; they report per-zip
	_ = group.Wait()

	logger.Info().Int("NumZips", report.RowsProcessed).Int("NumErrors", len(report.ErrorStrings())).
		Msg("metrics refresh complete")

	return report, nil
}

func (engine *Engine) computeZip(ctx context.Context, zip string, today time.Time) (*data.ZipMetric, error) {
	values, err := engine.Store.HomeValues(ctx, zip)
	if err != nil {
		return nil, err
	}

	latest := latestWithValue(values)
	if latest == nil {
		return nil, nil
	}

	demos, err := engine.Store.Demographics(ctx, zip)
	if err != nil {
		return nil, err
	}

	activity, err := engine.Store.LatestActivity(ctx, zip)
	if err != nil {
		return nil, err
	}

	var income *float64
	if len(demos) > 0 {
		income = demos[len(demos)-1].MedianHouseholdIncome
	}

	homeValue := *latest.HomeValue
	payment := MonthlyPayment(homeValue, engine.Config)

	metric := &data.ZipMetric{
		Zip:        zip,
		EventDate:  today,
		ComputedAt: time.Now(),

		MonthlyPayment: data.Float(payment),
		SalaryToAfford: data.Float(SalaryToAfford(payment, engine.Config)),

		ValuationRatio:      ValuationRatio(latest.HomeValue, income),
		MortgageToIncomePct: MortgageToIncomePct(payment, income),
		CapRate:             CapRate(homeValue, latest.RentValue, engine.Config),
		BuyVsRentRatio:      BuyVsRentRatio(payment, latest.RentValue),
		Forecast12MPct:      Forecast12M(values),
	}

	historicalAvg := HistoricalAvgValuationRatio(values, demos)
	metric.OvervaluationPct = OvervaluationPct(metric.ValuationRatio, historicalAvg)

	var daysOnMarket, saleToList *float64
	if activity != nil {
		daysOnMarket = activity.MedianDaysOnMarket
		saleToList = activity.SaleToListRatio
	}

	metric.InvestorScore = InvestorScore(metric.CapRate, metric.BuyVsRentRatio, daysOnMarket)
	metric.GrowthScore = GrowthScore(metric.Forecast12MPct, TrailingAppreciationPct(values), engine.Config)
	metric.MarketHealthScore = MarketHealthScore(metric.MortgageToIncomePct, metric.OvervaluationPct, saleToList)

	return metric, nil
}

// latestWithValue returns the most recent observation carrying an overall
// home value, or nil when the zip has none.
func latestWithValue(values []*data.HomeValue) *data.HomeValue {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i].HomeValue != nil {
			return values[i]
		}
	}
	return nil
}
