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
package snapshot

import "github.com/hometrack/htdata/data"

// Label thresholds mapping a 0-100 market score to a temperature.
const (
	hotThreshold      = 85
	warmThreshold     = 70
	balancedThreshold = 50
	coolThreshold     = 35
)

// neutralScore is used when no market-activity signal is available at all.
const neutralScore = 50

// TemperatureScore combines up to four independent market signals into a
// single 0-100 score; higher means a hotter (seller-favoring) market. Each
// signal is mapped through a fixed threshold band and the available bands
// are averaged, so a zip with partial data still scores.
func TemperatureScore(daysOnMarket, saleToList, monthsOfSupply, inventoryGrowthPct *float64) float64 {
	var subScores []*float64

	if daysOnMarket != nil {
		subScores = append(subScores, data.Float(daysOnMarketScore(*daysOnMarket)))
	}
	if saleToList != nil {
		subScores = append(subScores, data.Float(saleToListScore(*saleToList)))
	}
	if monthsOfSupply != nil {
		subScores = append(subScores, data.Float(monthsOfSupplyScore(*monthsOfSupply)))
	}
	if inventoryGrowthPct != nil {
		subScores = append(subScores, data.Float(inventoryGrowthScore(*inventoryGrowthPct)))
	}

	mean := data.MeanAvailable(subScores...)
	if mean == nil {
		return neutralScore
	}

	return data.Clamp(*mean, 0, 100)
}

// TemperatureLabel maps a market score to its categorical label.
func TemperatureLabel(score float64) string {
	switch {
	case score >= hotThreshold:
		return data.TempHot
	case score >= warmThreshold:
		return data.TempWarm
	case score >= balancedThreshold:
		return data.TempBalanced
	case score >= coolThreshold:
		return data.TempCool
	default:
		return data.TempCold
	}
}

// homes selling fast mean a hot market
func daysOnMarketScore(dom float64) float64 {
	switch {
	case dom < 15:
		return 100
	case dom < 30:
		return 80
	case dom < 45:
		return 60
	case dom < 60:
		return 40
	default:
		return 20
	}
}

// sales above list price mean buyers are competing
func saleToListScore(ratio float64) float64 {
	switch {
	case ratio >= 1.02:
		return 100
	case ratio >= 0.99:
		return 80
	case ratio >= 0.97:
		return 60
	case ratio >= 0.95:
		return 40
	default:
		return 20
	}
}

// scarce supply favors sellers
func monthsOfSupplyScore(months float64) float64 {
	switch {
	case months < 1.5:
		return 100
	case months < 3:
		return 80
	case months < 4.5:
		return 60
	case months < 6:
		return 40
	default:
		return 20
	}
}

// falling inventory signals demand outpacing new listings
func inventoryGrowthScore(growthPct float64) float64 {
	switch {
	case growthPct < -10:
		return 100
	case growthPct < 0:
		return 80
	case growthPct < 10:
		return 60
	case growthPct < 20:
		return 40
	default:
		return 20
	}
}
