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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometrack/htdata/data"
)

func monthlySeries(start time.Time, values ...float64) []*data.HomeValue {
	series := make([]*data.HomeValue, len(values))
	for i, v := range values {
		series[i] = &data.HomeValue{
			Zip:       "85004",
			EventDate: start.AddDate(0, i, 0),
			HomeValue: data.Float(v),
		}
	}
	return series
}

func TestForecast12MRequiresSixObservations(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, Forecast12M(nil))
	assert.Nil(t, Forecast12M(monthlySeries(start, 100, 101, 102, 103, 104)))

	forecast := Forecast12M(monthlySeries(start, 100, 101, 102, 103, 104, 105))
	require.NotNil(t, forecast)
	assert.False(t, math.IsNaN(*forecast))
	assert.False(t, math.IsInf(*forecast, 0))
}

func TestForecast12MLinearSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// perfectly linear: fitted last = 111, fitted 12 ahead = 123
	series := monthlySeries(start, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111)

	forecast := Forecast12M(series)
	require.NotNil(t, forecast)
	assert.InDelta(t, (123.0/111.0-1)*100, *forecast, 1e-6)
}

func TestForecast12MFlatSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	forecast := Forecast12M(monthlySeries(start, 250, 250, 250, 250, 250, 250, 250, 250))
	require.NotNil(t, forecast)
	assert.InDelta(t, 0, *forecast, 1e-9)
}

func TestForecast12MDegenerateFit(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// the fitted value at the last observation is zero, so the percentage
	// change is undefined
	assert.Nil(t, Forecast12M(monthlySeries(start, 0, 0, 0, 0, 0, 0)))
}

func TestForecast12MSkipsMissingValues(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := monthlySeries(start, 100, 101, 102, 103, 104)
	series = append(series, &data.HomeValue{
		Zip:       "85004",
		EventDate: start.AddDate(0, 5, 0),
		RentValue: data.Float(1900), // no home value
	})

	// only five usable observations remain
	assert.Nil(t, Forecast12M(series))
}

func TestTrailingAppreciationPct(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// thirteen observations: first 100, last 110
	series := monthlySeries(start, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 110, 110)

	appreciation := TrailingAppreciationPct(series)
	require.NotNil(t, appreciation)
	assert.InDelta(t, 10, *appreciation, 1e-9)

	assert.Nil(t, TrailingAppreciationPct(series[:12]))
}
