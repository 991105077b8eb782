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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/geo"
	"github.com/hometrack/htdata/store"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "htdata",
	Short: "htdata maintains the metro housing-market analytics database",
	Long: `htdata is a command line utility for building and maintaining a database
of housing-market analytics for a metro area. It ingests three independently
updated datasets for every covered zip code:

	* monthly home-value and rent indexes
	* annual demographic survey estimates
	* weekly listing and sale activity

and derives the per-zip affordability, investment, growth, and market
temperature metrics consumed by the dashboard layer. Each dataset keeps its
own schema and publication cadence; htdata normalizes them into a common
per-zip shape and recomputes derived metrics daily.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.htdata.toml)")
	rootCmd.PersistentFlags().String("dbUrl", "", "database connection string")
	if err := viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("dbUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dbUrl failed")
	}

	setDefaults()
}

// setDefaults registers every tunable so nothing is hardcoded into the
// pipeline logic.
func setDefaults() {
	viper.SetDefault("database.batchsize", 250)

	viper.SetDefault("homevalues.url.value", "https://files.zillowstatic.com/research/public_csvs/zhvi/Zip_zhvi_uc_sfrcondo_tier_0.33_0.67_sm_sa_month.csv")
	viper.SetDefault("homevalues.url.sfr", "https://files.zillowstatic.com/research/public_csvs/zhvi/Zip_zhvi_uc_sfr_tier_0.33_0.67_sm_sa_month.csv")
	viper.SetDefault("homevalues.url.condo", "https://files.zillowstatic.com/research/public_csvs/zhvi/Zip_zhvi_uc_condo_tier_0.33_0.67_sm_sa_month.csv")
	viper.SetDefault("homevalues.url.rent", "https://files.zillowstatic.com/research/public_csvs/zori/Zip_zori_uc_sfrcondomfr_sm_month.csv")
	viper.SetDefault("homevalues.windowyears", 10)
	viper.SetDefault("homevalues.ratelimit", 30)

	viper.SetDefault("census.url", "https://api.census.gov/data")

	viper.SetDefault("activity.url", "https://redfin-public-data.s3.us-west-2.amazonaws.com/redfin_market_tracker/zip_code_market_tracker.tsv000.gz")

	viper.SetDefault("mortgage.downpayment", 0.20)
	viper.SetDefault("mortgage.rate", 0.0689)
	viper.SetDefault("mortgage.termyears", 30)
	viper.SetDefault("metrics.expenseratio", 0.35)
	viper.SetDefault("metrics.affordabilityratio", 0.28)
	viper.SetDefault("metrics.forecastsensitivity", 5.0)
	viper.SetDefault("metrics.workers", 4)

	viper.SetDefault("schedule.timezone", "America/Phoenix")
	viper.SetDefault("schedule.homevalues", "168h")
	viper.SetDefault("schedule.demographics", "720h")
	viper.SetDefault("schedule.activity", "24h")
	viper.SetDefault("schedule.metrics", "24h")
	viper.SetDefault("schedule.snapshot", "24h")
	viper.SetDefault("schedule.staleness", "48h")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".htdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".htdata")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

// openStore connects to the database and loads the geo reference set.
func openStore(ctx context.Context) (*store.Postgres, *geo.ReferenceSet) {
	pg, err := store.New(ctx, viper.GetString("database.url"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	zips, err := pg.Zips(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load zip reference set")
	}

	refSet, err := geo.NewReferenceSet(zips)
	if err != nil {
		log.Fatal().Err(err).Msg("zip reference set is invalid; run htdata init first")
	}

	return pg, refSet
}
