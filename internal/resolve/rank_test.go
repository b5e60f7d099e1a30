// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestRankDeduplicatesKeepingFirst(t *testing.T) {
	candidates := []types.Paper{
		{Title: "Attention Is All You Need", Venue: "NIPS"},
		{Title: "  attention is all you need ", Venue: "CrossRef copy"},
		{Title: "Attention Is Not All You Need", Venue: "arXiv"},
	}

	ranked := Rank(candidates, "Attention Is All You Need")
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}
	// The first-encountered duplicate survives.
	if ranked[0].Venue != "NIPS" {
		t.Errorf("surviving duplicate = %q, want first-encountered", ranked[0].Venue)
	}
}

func TestRankExactMatchBeatsNewerSubstring(t *testing.T) {
	candidates := []types.Paper{
		{Title: "A Study of Attention Is All You Need Variants", Year: "2020"},
		{Title: "Attention Is All You Need", Year: "2017"},
	}

	ranked := Rank(candidates, "Attention Is All You Need")
	if ranked[0].Year != "2017" {
		t.Errorf("ranked[0] = %q, exact match must rank first regardless of year", ranked[0].Title)
	}
}

func TestRankSubstringPosition(t *testing.T) {
	candidates := []types.Paper{
		{Title: "Revisiting ResNet training", Year: "2021"},
		{Title: "ResNet strikes back", Year: "2019"},
	}

	ranked := Rank(candidates, "resnet")
	// "ResNet strikes back" has the query at index 0 and ranks first even
	// though the other candidate is newer.
	if ranked[0].Title != "ResNet strikes back" {
		t.Errorf("ranked[0] = %q, want earlier substring position first", ranked[0].Title)
	}
}

func TestRankYearTieBreak(t *testing.T) {
	candidates := []types.Paper{
		{Title: "transformers in vision", Year: "2019"},
		{Title: "transformers in speech", Year: "2022"},
		{Title: "transformers in biology", Year: types.UnknownYear},
	}

	ranked := Rank(candidates, "transformers")
	if ranked[0].Year != "2022" || ranked[1].Year != "2019" {
		t.Errorf("year order = %q, %q, want descending", ranked[0].Year, ranked[1].Year)
	}
	// Sentinel year parses as 0 and sorts last.
	if ranked[2].Year != types.UnknownYear {
		t.Errorf("ranked[2].Year = %q, want sentinel last", ranked[2].Year)
	}
}

func TestRankNonSubstringFallsThrough(t *testing.T) {
	candidates := []types.Paper{
		{Title: "an unrelated older paper", Year: "2001"},
		{Title: "an unrelated newer paper", Year: "2015"},
	}

	ranked := Rank(candidates, "quantum chromodynamics")
	// Neither title contains the query; year decides.
	if ranked[0].Year != "2015" {
		t.Errorf("ranked[0].Year = %q, want 2015", ranked[0].Year)
	}
}

func TestCollapse(t *testing.T) {
	papers := func(n int) []types.Paper {
		ps := make([]types.Paper, n)
		for i := range ps {
			ps[i] = types.Paper{Title: string(rune('a' + i))}
		}
		return ps
	}

	if o := Collapse(nil, 5); o.Kind != types.OutcomeNotFound {
		t.Errorf("empty → %v, want not_found", o.Kind)
	}

	o := Collapse(papers(1), 5)
	if o.Kind != types.OutcomeResolved || o.Paper == nil {
		t.Errorf("single survivor must collapse to resolved, got %v", o.Kind)
	}
	if len(o.Candidates) != 0 {
		t.Errorf("resolved outcome must not carry a candidate set")
	}

	o = Collapse(papers(2), 5)
	if o.Kind != types.OutcomeAmbiguous || len(o.Candidates) != 2 {
		t.Errorf("two survivors → %v with %d candidates", o.Kind, len(o.Candidates))
	}

	o = Collapse(papers(8), 5)
	if len(o.Candidates) != 5 {
		t.Errorf("candidates = %d, want truncated to 5", len(o.Candidates))
	}
}
