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

	"gonum.org/v1/gonum/stat"

	"github.com/hometrack/htdata/data"
)

const (
	forecastWindow  = 12 // trailing months fitted
	forecastHorizon = 12 // months projected past the last observation
	forecastMinObs  = 6
)

// Forecast12M projects the percentage change in home value twelve months
// out by fitting an ordinary least-squares line over the trailing twelve
// monthly observations. Nil when fewer than six observations exist or the
// fit degenerates.
func Forecast12M(values []*data.HomeValue) *float64 {
	series := trailingValues(values, forecastWindow)
	if len(series) < forecastMinObs {
		return nil
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, series, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(slope) {
		return nil
	}

	last := float64(len(series) - 1)
	fittedNow := intercept + slope*last
	fittedFuture := intercept + slope*(last+forecastHorizon)

	return data.GrowthPct(&fittedFuture, &fittedNow)
}

// TrailingAppreciationPct is the realized home-value change over the last
// twelve monthly observations. Nil when the series is too short.
func TrailingAppreciationPct(values []*data.HomeValue) *float64 {
	series := trailingValues(values, forecastWindow+1)
	if len(series) < forecastWindow+1 {
		return nil
	}

	return data.GrowthPct(&series[len(series)-1], &series[0])
}

// trailingValues returns the last n non-nil home values in date order.
// Input is assumed sorted ascending by date.
func trailingValues(values []*data.HomeValue, n int) []float64 {
	series := make([]float64, 0, n)

	for i := len(values) - 1; i >= 0 && len(series) < n; i-- {
		if values[i].HomeValue == nil {
			continue
		}
		series = append(series, *values[i].HomeValue)
	}

	// reverse back into chronological order
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}

	return series
}
