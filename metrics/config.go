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

import "github.com/spf13/viper"

// Config carries the financial assumptions behind the derived metrics.
// Every value is overridable through configuration; nothing here is baked
// into the formulas.
type Config struct {
	// DownPaymentFraction is the assumed down payment as a fraction of the
	// purchase price.
	DownPaymentFraction float64

	// AnnualRate is the assumed fixed mortgage rate.
	AnnualRate float64

	// TermYears is the assumed mortgage term.
	TermYears int

	// ExpenseRatio is the fraction of gross rent consumed by operating
	// expenses when computing the capitalization rate.
	ExpenseRatio float64

	// AffordabilityRatio is the maximum share of gross income spent on
	// housing when computing the salary required to afford a home.
	AffordabilityRatio float64

	// ForecastSensitivity scales forecast and appreciation percentages when
	// mapping them onto the 0-100 growth score.
	ForecastSensitivity float64

	// Workers bounds the per-zip computation pool.
	Workers int
}

// FromViper loads the engine configuration, falling back to the registered
// defaults for any unset key.
func FromViper() Config {
	cfg := Config{
		DownPaymentFraction: viper.GetFloat64("mortgage.downpayment"),
		AnnualRate:          viper.GetFloat64("mortgage.rate"),
		TermYears:           viper.GetInt("mortgage.termyears"),
		ExpenseRatio:        viper.GetFloat64("metrics.expenseratio"),
		AffordabilityRatio:  viper.GetFloat64("metrics.affordabilityratio"),
		ForecastSensitivity: viper.GetFloat64("metrics.forecastsensitivity"),
		Workers:             viper.GetInt("metrics.workers"),
	}

	if cfg.DownPaymentFraction <= 0 {
		cfg.DownPaymentFraction = 0.20
	}
	if cfg.AnnualRate <= 0 {
		cfg.AnnualRate = 0.0689
	}
	if cfg.TermYears <= 0 {
		cfg.TermYears = 30
	}
	if cfg.ExpenseRatio <= 0 {
		cfg.ExpenseRatio = 0.35
	}
	if cfg.AffordabilityRatio <= 0 {
		cfg.AffordabilityRatio = 0.28
	}
	if cfg.ForecastSensitivity <= 0 {
		cfg.ForecastSensitivity = 5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	return cfg
}
