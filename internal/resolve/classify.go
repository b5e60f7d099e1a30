// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns raw reference strings into resolution outcomes. It
// classifies each reference as a DOI or a free-text title, dispatches it to
// the provider adapters, and deduplicates and ranks the candidates.
package resolve

import (
	"regexp"
	"strings"
)

// QueryKind classifies one reference string.
type QueryKind int

const (
	// QueryTitle is a free-text title query.
	QueryTitle QueryKind = iota

	// QueryDOI is a reference containing a DOI.
	QueryDOI
)

func (k QueryKind) String() string {
	if k == QueryDOI {
		return "doi"
	}
	return "title"
}

// doiPattern matches a DOI embedded anywhere in a reference string:
// "10." followed by a 4-9 digit registrant and a suffix.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[-._;()/:a-zA-Z0-9]+`)

// strictDOIPattern matches a string that is exactly one DOI.
var strictDOIPattern = regexp.MustCompile(`^10\.\d{4,9}/[-._;()/:a-zA-Z0-9]+$`)

// Classify inspects a reference string. When it contains a DOI the kind is
// QueryDOI and the returned query is the extracted DOI; otherwise the kind
// is QueryTitle and the query is the trimmed reference. Classification is
// pure and deterministic.
func Classify(ref string) (QueryKind, string) {
	ref = strings.TrimSpace(ref)
	if m := doiPattern.FindString(ref); m != "" {
		return QueryDOI, m
	}
	return QueryTitle, ref
}

// ValidDOI reports whether s as a whole is a well-formed DOI. Boundary
// layers use it to reject malformed lookup input.
func ValidDOI(s string) bool {
	return strictDOIPattern.MatchString(strings.TrimSpace(s))
}
