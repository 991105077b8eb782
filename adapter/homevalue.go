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
package adapter

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

var ErrAllDatasetsFailed = errors.New("all value-index datasets failed to download")

// HomeValueStore is the subset of the raw store the adapter writes to.
type HomeValueStore interface {
	UpsertHomeValues(ctx context.Context, rows []*data.HomeValue) error
}

// HomeValue ingests the monthly home-value and rent indexes. The overall,
// single-family, and condo value indexes plus the rent index arrive as
// separate wide CSV downloads (one row per zip, one column per month); they
// are merged into one combined row per (zip, month) before upserting.
// Ingestion is restricted to a trailing window so the raw store stays
// bounded.
type HomeValue struct {
	Zips  *geo.ReferenceSet
	Store HomeValueStore
}

func (hv *HomeValue) Name() string {
	return "homevalues"
}

type homeValueDataset struct {
	key    string
	url    string
	assign func(*data.HomeValue, float64)
}

func homeValueDatasets() []homeValueDataset {
	return []homeValueDataset{
		{
			key:    "value",
			url:    viper.GetString("homevalues.url.value"),
			assign: func(row *data.HomeValue, v float64) { row.HomeValue = &v },
		},
		{
			key:    "sfr",
			url:    viper.GetString("homevalues.url.sfr"),
			assign: func(row *data.HomeValue, v float64) { row.HomeValueSFR = &v },
		},
		{
			key:    "condo",
			url:    viper.GetString("homevalues.url.condo"),
			assign: func(row *data.HomeValue, v float64) { row.HomeValueCondo = &v },
		},
		{
			key:    "rent",
			url:    viper.GetString("homevalues.url.rent"),
			assign: func(row *data.HomeValue, v float64) { row.RentValue = &v },
		},
	}
}

// Refresh downloads each configured sub-dataset, merges observations per
// (zip, month) and upserts the combined rows. A sub-dataset that fails to
// download is reported and skipped; the run only fails outright when every
// sub-dataset is unavailable.
func (hv *HomeValue) Refresh(ctx context.Context) (*data.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	report := data.NewRunReport(hv.Name())
	defer report.Finish()

	windowYears := viper.GetInt("homevalues.windowyears")
	if windowYears <= 0 {
		windowYears = 10
	}
	cutoff := time.Now().AddDate(-windowYears, 0, 0)

	rateLimit := viper.GetInt("homevalues.ratelimit")
	if rateLimit <= 0 {
		rateLimit = 30
	}

	client := resty.New()
	limiter := rate.NewLimiter(rate.Limit(float64(rateLimit)/60.0), rateLimit)

	fetchedAt := time.Now()
	merged := make(map[string]*data.HomeValue)
	succeeded := 0

	for _, dataset := range homeValueDatasets() {
		if dataset.url == "" {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			report.AddError("homevalues: rate limit wait interrupted: %v", err)
			break
		}

		resp, err := client.R().SetContext(ctx).Get(dataset.url)
		if err != nil {
			report.AddError("homevalues: downloading %s index failed: %v", dataset.key, err)
			continue
		}

		if resp.StatusCode() >= 300 {
			report.AddError("homevalues: downloading %s index returned status %d", dataset.key, resp.StatusCode())
			continue
		}

		count, err := hv.mergeDataset(resp.Body(), cutoff, fetchedAt, dataset.assign, merged)
		if err != nil {
			report.AddError("homevalues: parsing %s index failed: %v", dataset.key, err)
			continue
		}

		logger.Debug().Str("Dataset", dataset.key).Int("Observations", count).Msg("merged value-index dataset")
		succeeded++
	}

	if succeeded == 0 {
		return report, ErrAllDatasetsFailed
	}

	rows := make([]*data.HomeValue, 0, len(merged))
	for _, row := range merged {
		if !row.Empty() {
			rows = append(rows, row)
		}
	}

	// deterministic write order
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Zip != rows[j].Zip {
			return rows[i].Zip < rows[j].Zip
		}
		return rows[i].EventDate.Before(rows[j].EventDate)
	})

	upsertBatches(ctx, report, rows, hv.Store.UpsertHomeValues)

	return report, nil
}

// mergeDataset parses one wide CSV file and folds its figures into the
// merged (zip, month) map. The file layout is a handful of region metadata
// columns followed by one column per month; the column set varies between
// files and over time, so date columns are discovered from the header.
func (hv *HomeValue) mergeDataset(raw []byte, cutoff, fetchedAt time.Time,
	assign func(*data.HomeValue, float64), merged map[string]*data.HomeValue) (int, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, err
	}

	if len(records) < 2 {
		return 0, fmt.Errorf("value-index file has no data rows")
	}

	header := records[0]
	zipCol := -1
	dateCols := make(map[int]time.Time)

	for idx, cell := range header {
		if cell == "RegionName" {
			zipCol = idx
			continue
		}

		if eventDate, err := time.Parse("2006-01-02", cell); err == nil {
			if eventDate.After(cutoff) {
				// normalize month-end column labels to the first of the month
				// so all sub-datasets merge on the same key
				dateCols[idx] = time.Date(eventDate.Year(), eventDate.Month(), 1, 0, 0, 0, 0, time.UTC)
			}
		}
	}

	if zipCol < 0 {
		return 0, fmt.Errorf("value-index file is missing the RegionName column")
	}

	count := 0
	for _, record := range records[1:] {
		if zipCol >= len(record) {
			continue
		}

		zip := record[zipCol]
		if !hv.Zips.Contains(zip) {
			continue
		}

		for idx, month := range dateCols {
			if idx >= len(record) {
				continue
			}

			value := parseFloat(record[idx])
			if value == nil {
				continue
			}

			key := zip + month.Format("|2006-01")
			row, ok := merged[key]
			if !ok {
				row = &data.HomeValue{Zip: zip, EventDate: month, FetchedAt: fetchedAt}
				merged[key] = row
			}

			assign(row, *value)
			count++
		}
	}

	return count, nil
}
