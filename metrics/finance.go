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

const monthsPerYear = 12

// MonthlyPayment computes the fixed-rate amortized monthly payment for a
// home at the configured rate, term, and down payment.
func MonthlyPayment(homeValue float64, cfg Config) float64 {
	principal := homeValue * (1 - cfg.DownPaymentFraction)
	months := float64(cfg.TermYears * monthsPerYear)
	monthlyRate := cfg.AnnualRate / monthsPerYear

	if monthlyRate == 0 {
		return principal / months
	}

	factor := math.Pow(1+monthlyRate, months)
	return principal * monthlyRate * factor / (factor - 1)
}

// ValuationRatio is home value over median household income, the standard
// affordability proxy. Nil when income is unknown.
func ValuationRatio(homeValue, income *float64) *float64 {
	return data.Div(homeValue, income)
}

// MortgageToIncomePct is the annualized payment as a percentage of income.
func MortgageToIncomePct(monthlyPayment float64, income *float64) *float64 {
	annual := monthlyPayment * monthsPerYear
	pct := data.Div(&annual, income)
	if pct == nil {
		return nil
	}

	result := *pct * 100
	return &result
}

// SalaryToAfford is the gross income needed to keep housing below the
// configured affordability ratio. Always computable once a home value
// exists.
func SalaryToAfford(monthlyPayment float64, cfg Config) float64 {
	return monthlyPayment * monthsPerYear / cfg.AffordabilityRatio
}

// CapRate is the annualized net rental yield relative to home value,
// expressed as a percentage. Nil when rent is unknown or the home value
// is zero.
func CapRate(homeValue float64, rent *float64, cfg Config) *float64 {
	if rent == nil {
		return nil
	}

	annualNet := *rent * monthsPerYear * (1 - cfg.ExpenseRatio)
	ratio := data.Div(&annualNet, &homeValue)
	if ratio == nil {
		return nil
	}

	result := *ratio * 100
	return &result
}

// BuyVsRentRatio compares the monthly mortgage payment to market rent.
// Nil when rent is unknown or zero.
func BuyVsRentRatio(monthlyPayment float64, rent *float64) *float64 {
	return data.Div(&monthlyPayment, rent)
}

// HistoricalAvgValuationRatio averages the valuation ratio across a zip's
// full value-index history. Each observation is paired with the survey
// income for the observation's year; when no survey covers that year the
// most recent known income is used instead. Nil when no pairing is
// possible.
func HistoricalAvgValuationRatio(values []*data.HomeValue, demos []*data.Demographic) *float64 {
	incomeByYear := make(map[int]*float64, len(demos))
	var latestIncome *float64

	// demos arrive in ascending year order
	for _, demo := range demos {
		if demo.MedianHouseholdIncome == nil {
			continue
		}
		incomeByYear[demo.Year] = demo.MedianHouseholdIncome
		latestIncome = demo.MedianHouseholdIncome
	}

	sum := 0.0
	n := 0

	for _, obs := range values {
		if obs.HomeValue == nil {
			continue
		}

		income, ok := incomeByYear[obs.EventDate.Year()]
		if !ok {
			income = latestIncome
		}

		ratio := data.Div(obs.HomeValue, income)
		if ratio == nil {
			continue
		}

		sum += *ratio
		n++
	}

	if n == 0 {
		return nil
	}

	avg := sum / float64(n)
	return &avg
}

// OvervaluationPct is the current valuation ratio's deviation from the
// historical average, as a percentage. Nil when either side is missing.
func OvervaluationPct(current, historicalAvg *float64) *float64 {
	return data.GrowthPct(current, historicalAvg)
}
