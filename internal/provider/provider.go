// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements adapters over external scholarly metadata
// APIs. Each adapter talks to one provider and maps its response shape onto
// the canonical Paper record. Adapters report every call to an injected
// metrics collector and surface failures as ordinary errors; the dispatcher
// treats a failed adapter as one that returned nothing.
package provider

import (
	"context"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Fetcher looks a work up by its persistent identifier.
type Fetcher interface {
	Name() string

	// FetchByDOI returns the matching paper, or (nil, nil) when the
	// provider cleanly has no record for the DOI.
	FetchByDOI(ctx context.Context, doi string) (*types.Paper, error)
}

// Searcher finds candidate works by free-text title query.
type Searcher interface {
	Name() string
	SearchByTitle(ctx context.Context, title string) ([]types.Paper, error)
}

// filterMatches keeps only candidates whose normalized title contains the
// normalized query, mirroring the upstream match semantics.
func filterMatches(papers []types.Paper, query string) []types.Paper {
	nq := strings.ToLower(strings.TrimSpace(query))
	var matches []types.Paper
	for _, p := range papers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(p.Title)), nq) {
			matches = append(matches, p)
		}
	}
	return matches
}

// splitDisplayName splits a full display name into family/given parts: the
// last whitespace token is the family name, the remainder is the given name.
func splitDisplayName(name string) types.Author {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return types.Author{}
	case 1:
		return types.Author{Family: fields[0]}
	default:
		return types.Author{
			Family: fields[len(fields)-1],
			Given:  strings.Join(fields[:len(fields)-1], " "),
		}
	}
}
