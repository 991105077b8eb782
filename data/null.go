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

import "math"

// Float returns a pointer to v. Used when building records with literal values.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int64) *int64 {
	return &v
}

// Div divides num by den, returning nil when either side is nil, the
// denominator is zero, or the result is not finite. Missing data propagates
// as nil rather than NaN or a panic.
func Div(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}

	result := *num / *den
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil
	}

	return &result
}

// DivCounts is Div over integer counts, as reported by survey sources.
func DivCounts(num, den *int64) *float64 {
	if num == nil || den == nil {
		return nil
	}

	numF := float64(*num)
	denF := float64(*den)
	return Div(&numF, &denF)
}

// GrowthPct computes the percentage change from previous to current,
// returning nil when either side is missing or previous is zero.
func GrowthPct(current, previous *float64) *float64 {
	ratio := Div(current, previous)
	if ratio == nil {
		return nil
	}

	pct := (*ratio - 1) * 100
	return &pct
}

// GrowthPctCounts is GrowthPct over integer counts.
func GrowthPctCounts(current, previous *int64) *float64 {
	ratio := DivCounts(current, previous)
	if ratio == nil {
		return nil
	}

	pct := (*ratio - 1) * 100
	return &pct
}

// Clamp bounds v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MeanAvailable averages the non-nil values, returning nil when none are
// available. Composite scores never require their full input set.
func MeanAvailable(values ...*float64) *float64 {
	sum := 0.0
	n := 0

	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}

	if n == 0 {
		return nil
	}

	mean := sum / float64(n)
	return &mean
}
