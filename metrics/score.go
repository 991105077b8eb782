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

	"github.com/hometrack/htdata/data"
)

// scale factors mapping raw metrics onto 0-100 sub-scores
const (
	capRateScale         = 10  // 10% cap rate saturates the score
	buyVsRentNeutral     = 2   // payment at 2x rent scores zero
	buyVsRentScale       = 50  // points per unit of ratio below neutral
	domInvestorSpan      = 60  // days on market that saturate the score
	affordabilityPenalty = 2   // points lost per percent of income spent
	overvaluationPenalty = 2   // points lost per percent from historical norm
	saleToListPenalty    = 1000 // points lost per unit of deviation from 1.0
	scoreMidpoint        = 50
)

// InvestorScore blends rental yield, the buy-vs-rent tradeoff, and days on
// market into a 0-100 score. Higher means better conditions for an
// investor. Nil only when no constituent input is available.
func InvestorScore(capRate, buyVsRent, daysOnMarket *float64) *float64 {
	var capScore, rentScore, domScore *float64

	if capRate != nil {
		capScore = data.Float(data.Clamp(*capRate*capRateScale, 0, 100))
	}

	if buyVsRent != nil {
		// lower ratios favor buying
		rentScore = data.Float(data.Clamp((buyVsRentNeutral-*buyVsRent)*buyVsRentScale, 0, 100))
	}

	if daysOnMarket != nil {
		// slow markets give investors leverage
		domScore = data.Float(data.Clamp(*daysOnMarket/domInvestorSpan*100, 0, 100))
	}

	return data.MeanAvailable(capScore, rentScore, domScore)
}

// GrowthScore blends the 12-month forecast with realized trailing
// appreciation, both centered at 50 and scaled by the configured
// sensitivity.
func GrowthScore(forecastPct, appreciationPct *float64, cfg Config) *float64 {
	return data.MeanAvailable(
		centeredScore(forecastPct, cfg.ForecastSensitivity),
		centeredScore(appreciationPct, cfg.ForecastSensitivity),
	)
}

// MarketHealthScore blends affordability, valuation, and sale-to-list
// balance. Higher means a healthier, more sustainable market.
func MarketHealthScore(mortgageToIncomePct, overvaluationPct, saleToList *float64) *float64 {
	var affordScore, valuationScore, balanceScore *float64

	if mortgageToIncomePct != nil {
		affordScore = data.Float(data.Clamp(100-*mortgageToIncomePct*affordabilityPenalty, 0, 100))
	}

	if overvaluationPct != nil {
		// deviation from the historical norm in either direction is penalized
		valuationScore = data.Float(data.Clamp(100-math.Abs(*overvaluationPct)*overvaluationPenalty, 0, 100))
	}

	if saleToList != nil {
		balanceScore = data.Float(data.Clamp(100-math.Abs(*saleToList-1)*saleToListPenalty, 0, 100))
	}

	return data.MeanAvailable(affordScore, valuationScore, balanceScore)
}

func centeredScore(pct *float64, sensitivity float64) *float64 {
	if pct == nil {
		return nil
	}

	return data.Float(data.Clamp(scoreMidpoint+*pct*sensitivity, 0, 100))
}
