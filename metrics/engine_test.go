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
package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu sync.Mutex

	homeValues   map[string][]*data.HomeValue
	demographics map[string][]*data.Demographic
	activity     map[string]*data.MarketActivity
	metrics      map[string]*data.ZipMetric

	failUpsert map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		homeValues:   make(map[string][]*data.HomeValue),
		demographics: make(map[string][]*data.Demographic),
		activity:     make(map[string]*data.MarketActivity),
		metrics:      make(map[string]*data.ZipMetric),
		failUpsert:   make(map[string]error),
	}
}

func (store *memStore) HomeValues(_ context.Context, zip string) ([]*data.HomeValue, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.homeValues[zip], nil
}

func (store *memStore) Demographics(_ context.Context, zip string) ([]*data.Demographic, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.demographics[zip], nil
}

func (store *memStore) LatestActivity(_ context.Context, zip string) (*data.MarketActivity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.activity[zip], nil
}

func (store *memStore) UpsertMetric(_ context.Context, metric *data.ZipMetric) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.failUpsert[metric.Zip]; err != nil {
		return err
	}

	key := metric.Zip + metric.EventDate.Format("|2006-01-02")
	store.metrics[key] = metric
	return nil
}

func testEngine(t *testing.T, store *memStore, zips ...string) *Engine {
	t.Helper()

	refSet, err := geo.NewReferenceSet(zips)
	require.NoError(t, err)

	return &Engine{
		Zips:   refSet,
		Store:  store,
		Config: testConfig(),
	}
}

func seedHomeValues(store *memStore, zip string, months int, start, step float64) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		store.homeValues[zip] = append(store.homeValues[zip], &data.HomeValue{
			Zip:       zip,
			EventDate: base.AddDate(0, i, 0),
			HomeValue: data.Float(start + float64(i)*step),
			RentValue: data.Float(2500),
		})
	}
}

func TestEngineRefreshFullSources(t *testing.T) {
	store := newMemStore()
	seedHomeValues(store, "85004", 14, 400000, 1000)
	store.demographics["85004"] = []*data.Demographic{
		{Zip: "85004", Year: 2023, MedianHouseholdIncome: data.Float(80000)},
	}
	store.activity["85004"] = &data.MarketActivity{
		Zip:                "85004",
		MedianDaysOnMarket: data.Float(35),
		SaleToListRatio:    data.Float(0.99),
	}

	engine := testEngine(t, store, "85004")
	report, err := engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.RowsProcessed)
	assert.Empty(t, report.ErrorStrings())

	require.Len(t, store.metrics, 1)
	var metric *data.ZipMetric
	for _, m := range store.metrics {
		metric = m
	}

	require.NotNil(t, metric.MonthlyPayment)
	require.NotNil(t, metric.ValuationRatio)
	assert.InDelta(t, 413000.0/80000.0, *metric.ValuationRatio, 1e-9)
	assert.NotNil(t, metric.MortgageToIncomePct)
	assert.NotNil(t, metric.CapRate)
	assert.NotNil(t, metric.BuyVsRentRatio)
	assert.NotNil(t, metric.Forecast12MPct)
	assert.NotNil(t, metric.InvestorScore)
	assert.NotNil(t, metric.GrowthScore)
	assert.NotNil(t, metric.MarketHealthScore)
}

func TestEngineRefreshHomeValuesOnly(t *testing.T) {
	// payment-derived metrics are computable from home values alone;
	// income- and activity-derived fields stay null
	store := newMemStore()
	seedHomeValues(store, "85004", 3, 400000, 1000)

	engine := testEngine(t, store, "85004")
	report, err := engine.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowsProcessed)

	var metric *data.ZipMetric
	for _, m := range store.metrics {
		metric = m
	}
	require.NotNil(t, metric)

	assert.NotNil(t, metric.MonthlyPayment)
	assert.NotNil(t, metric.SalaryToAfford)
	assert.NotNil(t, metric.CapRate)
	assert.Nil(t, metric.ValuationRatio)
	assert.Nil(t, metric.MortgageToIncomePct)
	assert.Nil(t, metric.OvervaluationPct)
	assert.Nil(t, metric.Forecast12MPct) // only 3 observations
	assert.Nil(t, metric.MarketHealthScore)
}

func TestEngineSkipsZipWithoutHomeValue(t *testing.T) {
	store := newMemStore()
	store.demographics["85004"] = []*data.Demographic{
		{Zip: "85004", Year: 2023, MedianHouseholdIncome: data.Float(80000)},
	}

	engine := testEngine(t, store, "85004")
	report, err := engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.RowsProcessed)
	assert.Empty(t, report.ErrorStrings())
	assert.Empty(t, store.metrics)
}

func TestEngineRefreshIdempotent(t *testing.T) {
	store := newMemStore()
	seedHomeValues(store, "85004", 14, 400000, 1000)
	store.demographics["85004"] = []*data.Demographic{
		{Zip: "85004", Year: 2023, MedianHouseholdIncome: data.Float(80000)},
	}

	engine := testEngine(t, store, "85004")

	_, err := engine.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, store.metrics, 1)

	var first data.ZipMetric
	for _, m := range store.metrics {
		first = *m
	}

	_, err = engine.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, store.metrics, 1, "same day re-run overwrites in place")

	var second data.ZipMetric
	for _, m := range store.metrics {
		second = *m
	}

	// identical modulo the computation timestamp
	first.ComputedAt = time.Time{}
	second.ComputedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestEngineRefreshToleratesZeroWorkers(t *testing.T) {
	// a zero-value Config must not stall the worker pool
	refSet, err := geo.NewReferenceSet([]string{"85004"})
	require.NoError(t, err)

	engine := &Engine{Zips: refSet, Store: newMemStore(), Config: Config{}}

	done := make(chan error, 1)
	go func() {
		_, refreshErr := engine.Refresh(context.Background())
		done <- refreshErr
	}()

	select {
	case refreshErr := <-done:
		assert.NoError(t, refreshErr)
	case <-time.After(5 * time.Second):
		t.Fatal("refresh never finished with an unset worker limit")
	}
}

func TestEngineIsolatesZipFailures(t *testing.T) {
	store := newMemStore()
	seedHomeValues(store, "85004", 3, 400000, 1000)
	seedHomeValues(store, "85006", 3, 300000, 1000)
	store.failUpsert["85004"] = errors.New("connection reset")

	engine := testEngine(t, store, "85004", "85006")
	report, err := engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.RowsProcessed)
	require.Len(t, report.ErrorStrings(), 1)
	assert.Contains(t, report.ErrorStrings()[0], "85004")
}
