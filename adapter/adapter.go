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

// Package adapter contains the per-source ingestion adapters. Each adapter
// fetches raw external data for the covered metro, normalizes it into the
// source's observation shape, filters it against the geo reference set, and
// upserts it in bounded batches. A failed batch is recorded on the run
// report and the adapter moves on; re-running an adapter overwrites rather
// than duplicates.
package adapter

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/hometrack/htdata/data"
)

// Adapter is the contract the scheduler invokes. Refresh returns a run
// report even on partial failure; the error is non-nil only when the whole
// stage was unable to produce anything.
type Adapter interface {
	Name() string
	Refresh(ctx context.Context) (*data.RunReport, error)
}

// batchSize returns the configured upsert batch size.
func batchSize() int {
	size := viper.GetInt("database.batchsize")
	if size <= 0 {
		size = 250
	}
	return size
}

// upsertBatches writes rows through save in bounded batches. Batch failures
// are appended to the report with context and remaining batches are still
// attempted; the row count only reflects batches that were stored.
func upsertBatches[T any](ctx context.Context, report *data.RunReport, rows []T,
	save func(context.Context, []T) error) {
	size := batchSize()

	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}

		if err := save(ctx, rows[start:end]); err != nil {
			report.AddError("%s: batch upsert of rows %d-%d failed: %v", report.Stage, start, end-1, err)
			continue
		}

		report.AddRows(end - start)
	}
}

// parseFloat converts a source field to a float, treating empty strings and
// unparseable values as missing data.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return &v
}

// parseInt converts a source field to an integer count, treating empty
// strings and unparseable values as missing data.
func parseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// some sources report counts as decimals (e.g. "12.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}

	return &v
}
