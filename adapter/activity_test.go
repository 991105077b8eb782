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
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the bulk tracker file is tab delimited and served gzipped
const trackerTSV = "period_begin\tregion_type\tregion\tinventory\thomes_sold\tmedian_dom\tavg_sale_to_list\tprice_drops\tmonths_of_supply\n" +
	"2024-06-01\tzip\tZip Code: 85004\t120\t40\t25\t0.995\t0.12\t2.5\n" +
	"2024-06-01\tzip\tZip Code: 85006\t\t15\t\t0.98\t\t\n" +
	"2024-06-01\tzip\tZip Code: 90210\t300\t80\t18\t1.01\t0.05\t1.2\n" +
	"not-a-date\tzip\tZip Code: 85004\t99\t9\t9\t0.9\t0.1\t9\n"

func gzipBytes(t *testing.T, raw string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestActivityRefreshGzippedTSV(t *testing.T) {
	resetViper(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(gzipBytes(t, trackerTSV))
	}))
	defer server.Close()

	viper.Set("activity.url", server.URL)

	sink := &activitySink{}
	adapter := &Activity{Zips: testZips(t, "85004", "85006"), Store: sink}

	report, err := adapter.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.ErrorStrings())

	// 90210 is outside the reference set; the malformed-period row is
	// dropped
	require.Len(t, sink.rows, 2)
	assert.Equal(t, 2, report.RowsProcessed)

	first := sink.rows[0]
	assert.Equal(t, "85004", first.Zip)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), first.PeriodStart)
	require.NotNil(t, first.Inventory)
	assert.Equal(t, int64(120), *first.Inventory)
	require.NotNil(t, first.SaleToListRatio)
	assert.Equal(t, 0.995, *first.SaleToListRatio)
	require.NotNil(t, first.PriceDropPct)
	assert.InDelta(t, 12, *first.PriceDropPct, 1e-9, "share converts to percent")

	second := sink.rows[1]
	assert.Equal(t, "85006", second.Zip)
	assert.Nil(t, second.Inventory, "suppressed cells normalize to null")
	assert.Nil(t, second.MedianDaysOnMarket)
	require.NotNil(t, second.HomesSold)
	assert.Equal(t, int64(15), *second.HomesSold)
}

func TestActivityRefreshPlainCSV(t *testing.T) {
	resetViper(t)

	csvBody := "period_begin,region_type,region,inventory,homes_sold,median_dom,avg_sale_to_list,price_drops,months_of_supply\n" +
		"2024-06-01,zip,Zip Code: 85004,120,40,25,0.995,0.12,2.5\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(csvBody))
	}))
	defer server.Close()

	viper.Set("activity.url", server.URL)

	sink := &activitySink{}
	adapter := &Activity{Zips: testZips(t, "85004"), Store: sink}

	_, err := adapter.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, "85004", sink.rows[0].Zip)
}

func TestActivityRefreshDownloadFailure(t *testing.T) {
	resetViper(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "throttled", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	viper.Set("activity.url", server.URL)

	adapter := &Activity{Zips: testZips(t, "85004"), Store: &activitySink{}}

	_, err := adapter.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrActivityUnavailable)
}

func TestNormalizeZip(t *testing.T) {
	assert.Equal(t, "85004", normalizeZip("Zip Code: 85004"))
	assert.Equal(t, "85004", normalizeZip(" 85004 "))
	assert.Equal(t, "85004", normalizeZip("85004"))
}

func TestMaybeGunzipPassthrough(t *testing.T) {
	plain := []byte("period_begin,region\n")
	out, err := maybeGunzip(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	compressed := gzipBytes(t, "hello")
	out, err = maybeGunzip(compressed)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)
}
