// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Rank deduplicates candidates and orders them by relevance to the query.
//
// Dedup keys on the lowercased, trimmed title; the first occurrence in
// encounter order survives. The sort is stable with three tiers: an exact
// normalized-title match ranks first; then candidates are ordered by how
// early the normalized query appears as a substring of their title
// (candidates without the substring sort after all that have it); remaining
// ties break on descending numeric year, with unparseable years treated
// as 0. This is a heuristic relevance proxy, not string similarity.
func Rank(candidates []types.Paper, query string) []types.Paper {
	nq := normalize(query)

	seen := make(map[string]bool, len(candidates))
	deduped := make([]types.Paper, 0, len(candidates))
	for _, c := range candidates {
		key := normalize(c.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		at, bt := normalize(a.Title), normalize(b.Title)

		aExact, bExact := at == nq, bt == nq
		if aExact != bExact {
			return aExact
		}

		ai, bi := substringRank(at, nq), substringRank(bt, nq)
		if ai != bi {
			return ai < bi
		}

		return a.YearInt() > b.YearInt()
	})

	return deduped
}

// Collapse turns a ranked candidate list into an outcome: zero candidates
// is NotFound, one is Resolved, and two or more are Ambiguous truncated
// to max.
func Collapse(ranked []types.Paper, max int) types.Outcome {
	switch len(ranked) {
	case 0:
		return types.NotFound()
	case 1:
		return types.Resolved(&ranked[0])
	}
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return types.Ambiguous(ranked)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// substringRank returns the index of query within title, or MaxInt when
// the query does not occur so non-matches sort last within their tier.
func substringRank(title, query string) int {
	idx := strings.Index(title, query)
	if idx < 0 {
		return math.MaxInt
	}
	return idx
}
