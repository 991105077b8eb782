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
package adapter

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

// in-memory store fakes capturing what the adapters upsert

type homeValueSink struct {
	rows []*data.HomeValue
}

func (sink *homeValueSink) UpsertHomeValues(_ context.Context, rows []*data.HomeValue) error {
	sink.rows = append(sink.rows, rows...)
	return nil
}

type demographicSink struct {
	rows []*data.Demographic
}

func (sink *demographicSink) UpsertDemographics(_ context.Context, rows []*data.Demographic) error {
	sink.rows = append(sink.rows, rows...)
	return nil
}

type activitySink struct {
	rows []*data.MarketActivity
}

func (sink *activitySink) UpsertActivity(_ context.Context, rows []*data.MarketActivity) error {
	sink.rows = append(sink.rows, rows...)
	return nil
}

func testZips(t *testing.T, zips ...string) *geo.ReferenceSet {
	t.Helper()

	refSet, err := geo.NewReferenceSet(zips)
	require.NoError(t, err)
	return refSet
}

// resetViper restores a clean configuration after a test that overrides
// source URLs.
func resetViper(t *testing.T) {
	t.Helper()
	t.Cleanup(viper.Reset)
}

func TestParseFloat(t *testing.T) {
	assert.Nil(t, parseFloat(""))
	assert.Nil(t, parseFloat("  "))
	assert.Nil(t, parseFloat("n/a"))

	v := parseFloat(" 3.14 ")
	require.NotNil(t, v)
	assert.Equal(t, 3.14, *v)
}

func TestParseInt(t *testing.T) {
	assert.Nil(t, parseInt(""))
	assert.Nil(t, parseInt("abc"))

	v := parseInt("42")
	require.NotNil(t, v)
	assert.Equal(t, int64(42), *v)

	// decimal-formatted counts still parse
	v = parseInt("12.0")
	require.NotNil(t, v)
	assert.Equal(t, int64(12), *v)
}

func TestUpsertBatchesSplitsAndCounts(t *testing.T) {
	resetViper(t)
	viper.Set("database.batchsize", 3)

	report := data.NewRunReport("test")

	var batches [][]int
	rows := []int{1, 2, 3, 4, 5, 6, 7}

	upsertBatches(context.Background(), report, rows, func(_ context.Context, batch []int) error {
		batches = append(batches, batch)
		return nil
	})

	assert.Equal(t, 7, report.RowsProcessed)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[2], 1)
}

func TestUpsertBatchesIsolatesFailedBatch(t *testing.T) {
	resetViper(t)
	viper.Set("database.batchsize", 2)

	report := data.NewRunReport("test")

	calls := 0
	rows := []int{1, 2, 3, 4, 5, 6}

	upsertBatches(context.Background(), report, rows, func(_ context.Context, batch []int) error {
		calls++
		if calls == 2 {
			return assert.AnError
		}
		return nil
	})

	assert.Equal(t, 3, calls, "remaining batches still attempted")
	assert.Equal(t, 4, report.RowsProcessed)
	assert.Len(t, report.ErrorStrings(), 1)
}
