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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hometrack/htdata/data"
)

func TestTemperatureLabel(t *testing.T) {
	assert.Equal(t, data.TempHot, TemperatureLabel(90))
	assert.Equal(t, data.TempHot, TemperatureLabel(85))
	assert.Equal(t, data.TempWarm, TemperatureLabel(72))
	assert.Equal(t, data.TempWarm, TemperatureLabel(70))
	assert.Equal(t, data.TempBalanced, TemperatureLabel(55))
	assert.Equal(t, data.TempBalanced, TemperatureLabel(50))
	assert.Equal(t, data.TempCool, TemperatureLabel(40))
	assert.Equal(t, data.TempCool, TemperatureLabel(35))
	assert.Equal(t, data.TempCold, TemperatureLabel(20))
	assert.Equal(t, data.TempCold, TemperatureLabel(0))
}

func TestTemperatureScoreNoSignals(t *testing.T) {
	assert.Equal(t, float64(neutralScore), TemperatureScore(nil, nil, nil, nil))
}

func TestTemperatureScoreSingleSignal(t *testing.T) {
	// a single available band carries the whole score
	assert.Equal(t, 100.0, TemperatureScore(data.Float(10), nil, nil, nil))
	assert.Equal(t, 20.0, TemperatureScore(data.Float(90), nil, nil, nil))
	assert.Equal(t, 100.0, TemperatureScore(nil, data.Float(1.03), nil, nil))
	assert.Equal(t, 100.0, TemperatureScore(nil, nil, data.Float(1.0), nil))
	assert.Equal(t, 100.0, TemperatureScore(nil, nil, nil, data.Float(-15)))
}

func TestTemperatureScoreAveragesAvailableBands(t *testing.T) {
	// fast sales (100) and glutted supply (20) average to 60
	score := TemperatureScore(data.Float(10), nil, data.Float(8), nil)
	assert.Equal(t, 60.0, score)

	// all four bands at their hottest
	score = TemperatureScore(data.Float(5), data.Float(1.05), data.Float(1.0), data.Float(-20))
	assert.Equal(t, 100.0, score)
	assert.Equal(t, data.TempHot, TemperatureLabel(score))
}

func TestDaysOnMarketBands(t *testing.T) {
	assert.Equal(t, 100.0, daysOnMarketScore(14.9))
	assert.Equal(t, 80.0, daysOnMarketScore(15))
	assert.Equal(t, 60.0, daysOnMarketScore(30))
	assert.Equal(t, 40.0, daysOnMarketScore(45))
	assert.Equal(t, 20.0, daysOnMarketScore(60))
}

func TestSaleToListBands(t *testing.T) {
	assert.Equal(t, 100.0, saleToListScore(1.02))
	assert.Equal(t, 80.0, saleToListScore(1.0))
	assert.Equal(t, 60.0, saleToListScore(0.98))
	assert.Equal(t, 40.0, saleToListScore(0.96))
	assert.Equal(t, 20.0, saleToListScore(0.90))
}

func TestInventoryGrowthBands(t *testing.T) {
	assert.Equal(t, 100.0, inventoryGrowthScore(-12))
	assert.Equal(t, 80.0, inventoryGrowthScore(-5))
	assert.Equal(t, 60.0, inventoryGrowthScore(5))
	assert.Equal(t, 40.0, inventoryGrowthScore(15))
	assert.Equal(t, 20.0, inventoryGrowthScore(25))
}
