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
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

var ErrVintagesExhausted = errors.New("all candidate survey vintages failed")

// DemographicStore is the subset of the raw store the adapter writes to.
type DemographicStore interface {
	UpsertDemographics(ctx context.Context, rows []*data.Demographic) error
}

// Demographic ingests one survey vintage of ACS five-year estimates for all
// covered zips in a single API call. Publication of a vintage lags by more
// than a year, so when the target vintage is not yet available the adapter
// falls back to the immediately preceding one before giving up.
type Demographic struct {
	Zips  *geo.ReferenceSet
	Store DemographicStore
}

func (demo *Demographic) Name() string {
	return "demographics"
}

// survey variables requested per zip; the order here fixes the column
// layout of the response
var acsVariables = []string{
	"B01003_001E", // total population
	"B19013_001E", // median household income
	"B01002_001E", // median age
	"B25003_001E", // occupied housing units
	"B25003_002E", // owner occupied
	"B25003_003E", // renter occupied
	"B17001_002E", // income below poverty level
	"B15003_001E", // population 25 years and over
	"B15003_022E", // bachelor's degree
	"B15003_023E", // master's degree
	"B15003_024E", // professional degree
	"B15003_025E", // doctorate
	"B08006_001E", // workers 16 years and over
	"B08006_017E", // worked from home
	"B25035_001E", // median year structure built
}

// Refresh attempts the configured target vintage and then the preceding
// one, stopping at the first vintage that downloads. Only when every
// candidate fails does the stage report a fatal error.
func (demo *Demographic) Refresh(ctx context.Context) (*data.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	report := data.NewRunReport(demo.Name())
	defer report.Finish()

	vintage := viper.GetInt("census.vintage")
	if vintage == 0 {
		// five-year estimates trail the calendar by roughly two years
		vintage = time.Now().Year() - 2
	}

	for _, candidate := range []int{vintage, vintage - 1} {
		rows, err := demo.fetchVintage(ctx, candidate)
		if err != nil {
			report.AddError("demographics: vintage %d unavailable: %v", candidate, err)
			continue
		}

		logger.Info().Int("Vintage", candidate).Int("NumZips", len(rows)).Msg("downloaded survey vintage")
		upsertBatches(ctx, report, rows, demo.Store.UpsertDemographics)
		return report, nil
	}

	return report, ErrVintagesExhausted
}

func (demo *Demographic) fetchVintage(ctx context.Context, year int) ([]*data.Demographic, error) {
	baseURL := viper.GetString("census.url")
	if baseURL == "" {
		baseURL = "https://api.census.gov/data"
	}

	client := resty.New()
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParam("get", strings.Join(acsVariables, ",")).
		SetQueryParam("for", "zip code tabulation area:*").
		SetQueryParam("key", viper.GetString("census.apikey")).
		Get(fmt.Sprintf("%s/%d/acs/acs5", baseURL, year))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrStatusCode, resp.StatusCode())
	}

	// the response is a JSON array of arrays: a header row naming the
	// requested variables followed by one row of strings per zip
	var table [][]*string
	if err := json.Unmarshal(resp.Body(), &table); err != nil {
		return nil, err
	}

	if len(table) < 2 {
		return nil, fmt.Errorf("survey response for %d contains no rows", year)
	}

	cols := make(map[string]int, len(table[0]))
	for idx, name := range table[0] {
		if name != nil {
			cols[*name] = idx
		}
	}

	zipCol, ok := cols["zip code tabulation area"]
	if !ok {
		return nil, fmt.Errorf("survey response for %d is missing the zip column", year)
	}

	fetchedAt := time.Now()
	rows := make([]*data.Demographic, 0, demo.Zips.Len())

	for _, record := range table[1:] {
		if zipCol >= len(record) || record[zipCol] == nil {
			continue
		}

		zip := *record[zipCol]
		if !demo.Zips.Contains(zip) {
			continue
		}

		row := &data.Demographic{
			Zip:       zip,
			Year:      year,
			FetchedAt: fetchedAt,

			Population:            acsCount(record, cols, "B01003_001E"),
			MedianHouseholdIncome: acsValue(record, cols, "B19013_001E"),
			MedianAge:             acsValue(record, cols, "B01002_001E"),
			TotalHouseholds:       acsCount(record, cols, "B25003_001E"),
			OwnerOccupied:         acsCount(record, cols, "B25003_002E"),
			RenterOccupied:        acsCount(record, cols, "B25003_003E"),
			PovertyCount:          acsCount(record, cols, "B17001_002E"),
			Adults25Plus:          acsCount(record, cols, "B15003_001E"),
			TotalWorkers:          acsCount(record, cols, "B08006_001E"),
			RemoteWorkers:         acsCount(record, cols, "B08006_017E"),
			MedianYearBuilt:       acsCount(record, cols, "B25035_001E"),
		}

		row.BachelorsOrHigher = sumCounts(
			acsCount(record, cols, "B15003_022E"),
			acsCount(record, cols, "B15003_023E"),
			acsCount(record, cols, "B15003_024E"),
			acsCount(record, cols, "B15003_025E"),
		)

		row.ComputeRates()
		rows = append(rows, row)
	}

	return rows, nil
}

var ErrStatusCode = errors.New("unexpected status code")

// acsValue extracts a numeric survey figure. The survey encodes suppressed
// or unavailable figures as large negative sentinels, which are treated as
// missing.
func acsValue(record []*string, cols map[string]int, variable string) *float64 {
	idx, ok := cols[variable]
	if !ok || idx >= len(record) || record[idx] == nil {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(*record[idx]), 64)
	if err != nil || v < 0 {
		return nil
	}

	return &v
}

func acsCount(record []*string, cols map[string]int, variable string) *int64 {
	v := acsValue(record, cols, variable)
	if v == nil {
		return nil
	}

	count := int64(*v)
	return &count
}

// sumCounts adds the non-nil counts; nil only when every input is missing.
func sumCounts(counts ...*int64) *int64 {
	var total int64
	seen := false

	for _, c := range counts {
		if c == nil {
			continue
		}
		total += *c
		seen = true
	}

	if !seen {
		return nil
	}

	return &total
}
