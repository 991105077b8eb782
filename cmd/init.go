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
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/db"
	"github.com/hometrack/htdata/geo"
	"github.com/hometrack/htdata/store"
)

var zipFileFlag string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and seed the zip reference set",
	Long: `The init sub-command runs database migrations, loads the metro's zip
reference set from a TOML file and stores it, and writes the connection
settings to the config file. Init is safe to re-run; migrations and the
reference set are both idempotent.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		dbURL := viper.GetString("database.url")
		if dbURL == "" {
			log.Fatal().Msg("no database connection string; set database.url or pass --dbUrl")
		}

		log.Info().Msg("creating database tables")

		if err := db.Migrate(dbURL); err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")

		refSet, err := geo.LoadFile(zipFileFlag)
		if err != nil {
			log.Fatal().Err(err).Str("ZipFile", zipFileFlag).Msg("could not load zip reference set")
		}

		pg, err := store.New(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer pg.Close()

		if err := pg.SeedZips(ctx, refSet.Zips()); err != nil {
			log.Fatal().Err(err).Msg("error seeding zip reference set")
		}

		log.Info().Int("NumZips", refSet.Len()).Msg("zip reference set stored")

		// save database settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".htdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving database connection info to config file")

		configData, err := toml.Marshal(map[string]any{
			"database": map[string]string{"url": dbURL},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your analytics database has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&zipFileFlag, "zips", "zips.toml", "TOML file holding the metro zip reference set")
}
