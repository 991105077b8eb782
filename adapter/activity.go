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
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hometrack/htdata/data"
	"github.com/hometrack/htdata/geo"
)

var ErrActivityUnavailable = errors.New("market-activity download failed")

// ActivityStore is the subset of the raw store the adapter writes to.
type ActivityStore interface {
	UpsertActivity(ctx context.Context, rows []*data.MarketActivity) error
}

// Activity ingests per-zip, per-period listing and sale figures from the
// market tracker bulk file.
type Activity struct {
	Zips  *geo.ReferenceSet
	Store ActivityStore
}

func (activity *Activity) Name() string {
	return "activity"
}

// activityRow mirrors the bulk file's columns. Numeric fields stay strings
// here; the tracker emits empty cells for suppressed figures and those must
// normalize to null, not zero.
type activityRow struct {
	PeriodBegin    string `csv:"period_begin"`
	RegionType     string `csv:"region_type"`
	Region         string `csv:"region"`
	Inventory      string `csv:"inventory"`
	HomesSold      string `csv:"homes_sold"`
	MedianDOM      string `csv:"median_dom"`
	AvgSaleToList  string `csv:"avg_sale_to_list"`
	PriceDrops     string `csv:"price_drops"`
	MonthsOfSupply string `csv:"months_of_supply"`
}

// Refresh downloads the bulk activity file, keeps rows for covered zips,
// and upserts them keyed by (zip, period start).
func (activity *Activity) Refresh(ctx context.Context) (*data.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	report := data.NewRunReport(activity.Name())
	defer report.Finish()

	url := viper.GetString("activity.url")

	client := resty.New()
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		report.AddError("activity: download failed: %v", err)
		return report, fmt.Errorf("%w: %v", ErrActivityUnavailable, err)
	}

	if resp.StatusCode() >= 300 {
		report.AddError("activity: download returned status %d", resp.StatusCode())
		return report, fmt.Errorf("%w: status %d", ErrActivityUnavailable, resp.StatusCode())
	}

	body, err := maybeGunzip(resp.Body())
	if err != nil {
		report.AddError("activity: decompressing bulk file failed: %v", err)
		return report, fmt.Errorf("%w: %v", ErrActivityUnavailable, err)
	}

	var parsed []*activityRow
	if err := gocsv.UnmarshalCSV(trackerReader(body), &parsed); err != nil {
		report.AddError("activity: parsing bulk file failed: %v", err)
		return report, fmt.Errorf("%w: %v", ErrActivityUnavailable, err)
	}

	fetchedAt := time.Now()
	rows := make([]*data.MarketActivity, 0, len(parsed))

	for _, raw := range parsed {
		zip := normalizeZip(raw.Region)
		if !activity.Zips.Contains(zip) {
			continue
		}

		periodStart, err := time.Parse("2006-01-02", strings.TrimSpace(raw.PeriodBegin))
		if err != nil {
			// malformed period, skip the row
			continue
		}

		row := &data.MarketActivity{
			Zip:                zip,
			PeriodStart:        periodStart,
			Inventory:          parseInt(raw.Inventory),
			HomesSold:          parseInt(raw.HomesSold),
			MedianDaysOnMarket: parseFloat(raw.MedianDOM),
			SaleToListRatio:    parseFloat(raw.AvgSaleToList),
			PriceDropPct:       ratioToPct(parseFloat(raw.PriceDrops)),
			MonthsOfSupply:     parseFloat(raw.MonthsOfSupply),
			FetchedAt:          fetchedAt,
		}

		if row.Empty() {
			continue
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Zip != rows[j].Zip {
			return rows[i].Zip < rows[j].Zip
		}
		return rows[i].PeriodStart.Before(rows[j].PeriodStart)
	})

	logger.Debug().Int("NumRows", len(rows)).Msg("normalized market-activity rows")
	upsertBatches(ctx, report, rows, activity.Store.UpsertActivity)

	return report, nil
}

// maybeGunzip decompresses the payload when it carries the gzip magic
// bytes; the bulk tracker file is served compressed.
func maybeGunzip(body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// trackerReader builds a CSV reader for the bulk file, sniffing whether it
// is comma or tab delimited.
func trackerReader(body []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.LazyQuotes = true

	if idx := bytes.IndexByte(body, '\n'); idx > 0 && bytes.ContainsRune(body[:idx], '\t') {
		reader.Comma = '\t'
	}

	return reader
}

// normalizeZip strips the tracker's region prefix, e.g. "Zip Code: 85004".
func normalizeZip(region string) string {
	region = strings.TrimSpace(region)
	if idx := strings.LastIndex(region, " "); idx >= 0 {
		region = region[idx+1:]
	}
	return region
}

// ratioToPct converts a 0-1 share to a percentage.
func ratioToPct(v *float64) *float64 {
	if v == nil {
		return nil
	}

	pct := *v * 100
	return &pct
}
