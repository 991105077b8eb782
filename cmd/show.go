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
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var showDate string

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <zip>",
	Short: "Display the derived metrics and recent history for one zip code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())
		zip := args[0]

		pg, refSet := openStore(ctx)
		defer pg.Close()

		if !refSet.Contains(zip) {
			log.Fatal().Str("Zip", zip).Msg("zip code is not in the covered reference set")
		}

		metric, err := pg.LatestMetric(ctx, zip)
		if showDate != "" {
			date, parseErr := time.Parse("2006-01-02", showDate)
			if parseErr != nil {
				log.Fatal().Err(parseErr).Msg("--date must be YYYY-MM-DD")
			}
			metric, err = pg.MetricOn(ctx, zip, date)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not load metrics")
		}

		if metric == nil {
			fmt.Printf("%s: no derived metrics stored\n", zip)
		} else {
			fmt.Printf("%s metrics for %s\n", zip, metric.EventDate.Format("2006-01-02"))
			fmt.Printf("  monthly payment:     %s\n", money(metric.MonthlyPayment))
			fmt.Printf("  salary to afford:    %s\n", money(metric.SalaryToAfford))
			fmt.Printf("  valuation ratio:     %s\n", figure(metric.ValuationRatio))
			fmt.Printf("  overvaluation:       %s%%\n", figure(metric.OvervaluationPct))
			fmt.Printf("  mortgage/income:     %s%%\n", figure(metric.MortgageToIncomePct))
			fmt.Printf("  cap rate:            %s%%\n", figure(metric.CapRate))
			fmt.Printf("  buy vs rent:         %s\n", figure(metric.BuyVsRentRatio))
			fmt.Printf("  12-month forecast:   %s%%\n", figure(metric.Forecast12MPct))
			fmt.Printf("  investor score:      %s\n", figure(metric.InvestorScore))
			fmt.Printf("  growth score:        %s\n", figure(metric.GrowthScore))
			fmt.Printf("  market health score: %s\n", figure(metric.MarketHealthScore))
		}

		demo, err := pg.LatestDemographic(ctx, zip)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load demographics")
		}
		if demo != nil {
			fmt.Printf("\n%s survey vintage %d\n", zip, demo.Year)
			fmt.Printf("  median household income: %s\n", money(demo.MedianHouseholdIncome))
			fmt.Printf("  homeownership rate:      %s%%\n", figure(demo.HomeownershipRate))
		}

		now := time.Now().UTC()
		history, err := pg.HistoryRange(ctx, zip, now.AddDate(0, 0, -90), now)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load history")
		}

		if len(history) > 0 {
			fmt.Printf("\n%s snapshots (last 90 days)\n", zip)
			for _, snap := range history {
				fmt.Printf("  %s  %-8s score %5.1f  value %s  MoM %s%%\n",
					snap.EventDate.Format("2006-01-02"), snap.Temperature,
					snap.MarketScore, money(snap.HomeValue), figure(snap.PriceMoMPct))
			}
		}
	},
}

func money(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func figure(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showDate, "date", "", "show metrics for a specific day (YYYY-MM-DD)")
}
