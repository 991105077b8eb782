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

// Package geo holds the reference set of zip codes covered by the pipeline.
// Every other stage treats membership in this set as a validation gate:
// rows for unknown zips are dropped, never stored.
package geo

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/alphadose/haxmap"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrNoZips     = errors.New("reference set contains no zip codes")
	ErrInvalidZip = errors.New("invalid zip code")
)

const zipLen = 5

// ReferenceSet is an immutable, deduplicated set of zip codes. Lookups are
// safe for concurrent use by metric workers.
type ReferenceSet struct {
	members *haxmap.Map[string, struct{}]
	sorted  []string
}

// NewReferenceSet builds a reference set from the given zip codes,
// dropping duplicates. A zip that is not exactly five digits is rejected.
func NewReferenceSet(zips []string) (*ReferenceSet, error) {
	set := &ReferenceSet{
		members: haxmap.New[string, struct{}](uintptr(len(zips))),
	}

	for _, zip := range zips {
		if !validZip(zip) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidZip, zip)
		}

		if _, loaded := set.members.GetOrSet(zip, struct{}{}); !loaded {
			set.sorted = append(set.sorted, zip)
		}
	}

	if len(set.sorted) == 0 {
		return nil, ErrNoZips
	}

	sort.Strings(set.sorted)
	return set, nil
}

// Contains reports whether zip is part of the covered metro.
func (set *ReferenceSet) Contains(zip string) bool {
	_, ok := set.members.Get(zip)
	return ok
}

// Zips returns the members in ascending order. The slice is shared; callers
// must not modify it.
func (set *ReferenceSet) Zips() []string {
	return set.sorted
}

// Len returns the number of covered zip codes.
func (set *ReferenceSet) Len() int {
	return len(set.sorted)
}

func validZip(zip string) bool {
	if len(zip) != zipLen {
		return false
	}
	for _, r := range zip {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type zipFile struct {
	Zips []string `toml:"zips"`
}

// LoadFile reads a reference set from a TOML file of the form:
//
//	zips = ["85001", "85003", ...]
func LoadFile(path string) (*ReferenceSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed zipFile
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	return NewReferenceSet(parsed.Zips)
}
