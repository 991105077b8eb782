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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// surveyResponse is the array-of-arrays shape the survey API returns:
// a header row naming the variables, then one string row per zip. Suppressed
// figures arrive as large negative sentinels.
const surveyResponse = `[
["B01003_001E","B19013_001E","B01002_001E","B25003_001E","B25003_002E","B25003_003E","B15003_022E","B15003_023E","B15003_024E","B15003_025E","zip code tabulation area"],
["5000","65000","34.2","2000","1200","800","400","80","15","5","85004"],
["3000","-666666666","41.0","1500","900","600","200",null,null,null,"85006"],
["9000","120000","38.5","4000","3000","1000","900","300","100","50","90210"]
]`

func TestDemographicRefreshVintageFallback(t *testing.T) {
	resetViper(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the target vintage is not yet published
		if strings.HasPrefix(r.URL.Path, "/2023/") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		require.Equal(t, "/2022/acs/acs5", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("get"), "B19013_001E")
		assert.Equal(t, "zip code tabulation area:*", r.URL.Query().Get("for"))
		w.Write([]byte(surveyResponse))
	}))
	defer server.Close()

	viper.Set("census.url", server.URL)
	viper.Set("census.vintage", 2023)

	sink := &demographicSink{}
	adapter := &Demographic{Zips: testZips(t, "85004", "85006"), Store: sink}

	report, err := adapter.Refresh(context.Background())
	require.NoError(t, err)

	// the failed 2023 attempt is recorded, not fatal
	require.Len(t, report.ErrorStrings(), 1)
	assert.Contains(t, report.ErrorStrings()[0], "2023")
	assert.Equal(t, 2, report.RowsProcessed)

	// 90210 is outside the reference set
	require.Len(t, sink.rows, 2)

	first := sink.rows[0]
	assert.Equal(t, "85004", first.Zip)
	assert.Equal(t, 2022, first.Year)
	require.NotNil(t, first.Population)
	assert.Equal(t, int64(5000), *first.Population)
	require.NotNil(t, first.MedianHouseholdIncome)
	assert.Equal(t, 65000.0, *first.MedianHouseholdIncome)
	require.NotNil(t, first.BachelorsOrHigher)
	assert.Equal(t, int64(500), *first.BachelorsOrHigher)
	require.NotNil(t, first.HomeownershipRate)
	assert.InDelta(t, 60, *first.HomeownershipRate, 1e-9)

	second := sink.rows[1]
	assert.Equal(t, "85006", second.Zip)
	assert.Nil(t, second.MedianHouseholdIncome, "negative sentinel normalizes to null")
	require.NotNil(t, second.BachelorsOrHigher, "sum of the available degree counts")
	assert.Equal(t, int64(200), *second.BachelorsOrHigher)
}

func TestDemographicRefreshAllVintagesFail(t *testing.T) {
	resetViper(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	viper.Set("census.url", server.URL)
	viper.Set("census.vintage", 2023)

	adapter := &Demographic{Zips: testZips(t, "85004"), Store: &demographicSink{}}

	report, err := adapter.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrVintagesExhausted)
	assert.Len(t, report.ErrorStrings(), 2)
}

func TestAcsValueSentinels(t *testing.T) {
	cols := map[string]int{"X": 0}

	neg := "-666666666"
	assert.Nil(t, acsValue([]*string{&neg}, cols, "X"))
	assert.Nil(t, acsValue([]*string{nil}, cols, "X"))
	assert.Nil(t, acsValue([]*string{&neg}, cols, "missing"))

	ok := "42.5"
	v := acsValue([]*string{&ok}, cols, "X")
	require.NotNil(t, v)
	assert.Equal(t, 42.5, *v)
}

func TestSumCounts(t *testing.T) {
	assert.Nil(t, sumCounts(nil, nil))

	four := int64(4)
	six := int64(6)
	total := sumCounts(&four, nil, &six)
	require.NotNil(t, total)
	assert.Equal(t, int64(10), *total)
}
