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
package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivNullSafety(t *testing.T) {
	assert.Nil(t, Div(nil, Float(5)))
	assert.Nil(t, Div(Float(5), nil))
	assert.Nil(t, Div(Float(5), Float(0)))
	assert.Nil(t, Div(nil, nil))

	result := Div(Float(10), Float(4))
	require.NotNil(t, result)
	assert.InDelta(t, 2.5, *result, 1e-9)
}

func TestDivCounts(t *testing.T) {
	assert.Nil(t, DivCounts(Int(3), nil))
	assert.Nil(t, DivCounts(Int(3), Int(0)))

	result := DivCounts(Int(1), Int(4))
	require.NotNil(t, result)
	assert.InDelta(t, 0.25, *result, 1e-9)
}

func TestGrowthPct(t *testing.T) {
	assert.Nil(t, GrowthPct(Float(110), nil))
	assert.Nil(t, GrowthPct(nil, Float(100)))
	assert.Nil(t, GrowthPct(Float(110), Float(0)))

	result := GrowthPct(Float(110), Float(100))
	require.NotNil(t, result)
	assert.InDelta(t, 10, *result, 1e-9)

	result = GrowthPct(Float(90), Float(100))
	require.NotNil(t, result)
	assert.InDelta(t, -10, *result, 1e-9)
}

func TestGrowthPctCounts(t *testing.T) {
	assert.Nil(t, GrowthPctCounts(Int(120), nil))
	assert.Nil(t, GrowthPctCounts(nil, Int(100)))
	assert.Nil(t, GrowthPctCounts(Int(120), Int(0)))

	result := GrowthPctCounts(Int(120), Int(100))
	require.NotNil(t, result)
	assert.InDelta(t, 20, *result, 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestMeanAvailable(t *testing.T) {
	assert.Nil(t, MeanAvailable())
	assert.Nil(t, MeanAvailable(nil, nil))

	result := MeanAvailable(Float(40), nil, Float(60))
	require.NotNil(t, result)
	assert.InDelta(t, 50, *result, 1e-9)
}

func TestComputeRatesNullSafe(t *testing.T) {
	demo := &Demographic{
		Zip:             "85004",
		Year:            2023,
		OwnerOccupied:   Int(600),
		TotalHouseholds: Int(1000),
		PovertyCount:    Int(150),
		// Population nil: poverty rate must stay nil
	}

	demo.ComputeRates()

	require.NotNil(t, demo.HomeownershipRate)
	assert.InDelta(t, 60, *demo.HomeownershipRate, 1e-9)
	assert.Nil(t, demo.PovertyRate)
	assert.Nil(t, demo.RemoteWorkRate)
	assert.Nil(t, demo.DegreeRate)
}
