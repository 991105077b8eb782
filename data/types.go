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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunReport summarizes a single execution of a pipeline stage. Every stage
// entry point returns one; partial failures are recorded in Errors rather
// than aborting the run.
type RunReport struct {
	RunID     uuid.UUID
	Stage     string
	StartTime time.Time
	EndTime   time.Time

	RowsProcessed int
	Errors        []string

	mu sync.Mutex
}

// NewRunReport creates a report for the named stage with the clock started.
func NewRunReport(stage string) *RunReport {
	return &RunReport{
		RunID:     uuid.New(),
		Stage:     stage,
		StartTime: time.Now(),
	}
}

// Finish stops the report clock.
func (report *RunReport) Finish() {
	report.EndTime = time.Now()
}

// AddRows increments the processed-row counter. Safe for concurrent use.
func (report *RunReport) AddRows(n int) {
	report.mu.Lock()
	defer report.mu.Unlock()
	report.RowsProcessed += n
}

// AddError records a non-fatal error against the run. Safe for concurrent use.
func (report *RunReport) AddError(format string, args ...any) {
	report.mu.Lock()
	defer report.mu.Unlock()
	report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
}

// ErrorStrings returns a copy of the recorded errors.
func (report *RunReport) ErrorStrings() []string {
	report.mu.Lock()
	defer report.mu.Unlock()
	out := make([]string, len(report.Errors))
	copy(out, report.Errors)
	return out
}

// Duration returns the wall-clock time of the run.
func (report *RunReport) Duration() time.Duration {
	return report.EndTime.Sub(report.StartTime)
}
