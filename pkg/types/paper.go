// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the canonical records shared across the resolution
// pipeline: the provider-agnostic Paper, per-query resolution outcomes, and
// stage configuration.
package types

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel strings substituted for missing bibliographic fields. A render
// never fails outright; each field independently falls back to its sentinel.
const (
	UnknownTitle   = "Unknown title"
	UnknownJournal = "Unknown journal"
	UnknownYear    = "Unknown year"
	UnknownAuthor  = "Unknown author"
	UnknownFamily  = "Unknown"
)

// ErrMalformedInput marks client-visible validation failures (invalid DOI
// shape, empty reference list, unsupported style name). Boundary layers
// unwrap it with errors.Is to distinguish bad input from internal faults.
var ErrMalformedInput = errors.New("malformed input")

// Author is one contributor to a work. Either part may be empty; formatting
// falls back to the "Unknown" family sentinel when the family name is missing.
type Author struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

// Paper is the canonical bibliographic record used throughout the pipeline.
// Adapters construct one per provider record; it is not mutated afterwards.
// The JSON field names match the API contract ("journal" for the venue).
type Paper struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Venue   string   `json:"journal"`
	Year    string   `json:"year"`
	DOI     string   `json:"doi"`
}

// YearInt returns the publication year as an integer for ranking
// comparisons. Missing or non-numeric years (including the sentinel)
// parse as 0 so they sort after any real year.
func (p Paper) YearInt() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Year))
	if err != nil {
		return 0
	}
	return n
}
