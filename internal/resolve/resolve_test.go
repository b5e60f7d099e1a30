// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-engine/internal/provider"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- fakes ---

type fakeFetcher struct {
	name   string
	papers map[string]*types.Paper
	err    error
	calls  int
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) FetchByDOI(_ context.Context, doi string) (*types.Paper, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.papers[doi], nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	name    string
	results []types.Paper
	err     error
	queries []string
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) SearchByTitle(_ context.Context, title string) ([]types.Paper, error) {
	f.mu.Lock()
	f.queries = append(f.queries, title)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// --- DOI path ---

func TestResolveDOIPrimaryHit(t *testing.T) {
	paper := &types.Paper{Title: "Array programming with NumPy", DOI: "10.1038/s41586-020-2649-2"}
	fetcher := &fakeFetcher{name: "crossref", papers: map[string]*types.Paper{paper.DOI: paper}}
	fallback := &fakeSearcher{name: "semantic_scholar"}
	r := New(fetcher, nil, fallback, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "10.1038/s41586-020-2649-2")
	if out.Kind != types.OutcomeResolved {
		t.Fatalf("Kind = %v, want resolved", out.Kind)
	}
	if out.Paper.Title != paper.Title {
		t.Errorf("Paper = %+v", out.Paper)
	}
	if len(fallback.queries) != 0 {
		t.Errorf("fallback queried on a primary hit")
	}
}

func TestResolveDOIFallbackUsesDOIAsQuery(t *testing.T) {
	fetcher := &fakeFetcher{name: "crossref"}
	fallback := &fakeSearcher{
		name:    "semantic_scholar",
		results: []types.Paper{{Title: "paper found at 10.9999/zz.42 mirror", Year: "2018"}},
	}
	r := New(fetcher, nil, fallback, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "10.9999/zz.42")
	if out.Kind != types.OutcomeResolved {
		t.Fatalf("Kind = %v, want resolved via fallback", out.Kind)
	}
	if len(fallback.queries) != 1 || fallback.queries[0] != "10.9999/zz.42" {
		t.Errorf("fallback queries = %v, want the DOI string itself", fallback.queries)
	}
}

func TestResolveDOIFallbackDisabled(t *testing.T) {
	fetcher := &fakeFetcher{name: "crossref"}
	fallback := &fakeSearcher{
		name:    "semantic_scholar",
		results: []types.Paper{{Title: "should not be used"}},
	}
	cfg := types.DefaultResolveConfig()
	cfg.DOIFallbackSearch = false
	r := New(fetcher, nil, fallback, cfg, zap.NewNop())

	out := r.Resolve(context.Background(), "10.9999/zz.42")
	if out.Kind != types.OutcomeNotFound {
		t.Fatalf("Kind = %v, want not_found with fallback disabled", out.Kind)
	}
	if len(fallback.queries) != 0 {
		t.Errorf("fallback queried despite being disabled")
	}
}

func TestResolveDOIFetcherErrorStillFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{name: "crossref", err: errors.New("upstream down")}
	fallback := &fakeSearcher{
		name:    "semantic_scholar",
		results: []types.Paper{{Title: "record for 10.1234/ab.1"}},
	}
	r := New(fetcher, nil, fallback, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "10.1234/ab.1")
	if out.Kind != types.OutcomeResolved {
		t.Fatalf("Kind = %v, fetcher error must degrade to a miss, not abort", out.Kind)
	}
}

func TestLookupDOIMalformed(t *testing.T) {
	r := New(&fakeFetcher{name: "crossref"}, nil, nil, types.DefaultResolveConfig(), zap.NewNop())

	_, err := r.LookupDOI(context.Background(), "not-a-doi")
	if !errors.Is(err, types.ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestLookupDOICleanMiss(t *testing.T) {
	cfg := types.DefaultResolveConfig()
	cfg.DOIFallbackSearch = false
	r := New(&fakeFetcher{name: "crossref"}, nil, nil, cfg, zap.NewNop())

	p, err := r.LookupDOI(context.Background(), "10.9999/absent")
	if err != nil {
		t.Fatalf("LookupDOI: %v", err)
	}
	if p != nil {
		t.Errorf("p = %+v, want nil", p)
	}
}

// --- title path ---

func TestResolveTitleCombinesInDeclarationOrder(t *testing.T) {
	s2 := &fakeSearcher{name: "semantic_scholar", results: []types.Paper{
		{Title: "neural machine translation", Venue: "from-s2", Year: "2016"},
	}}
	cr := &fakeSearcher{name: "crossref", results: []types.Paper{
		{Title: "Neural Machine Translation", Venue: "from-crossref", Year: "2016"},
	}}
	r := New(&fakeFetcher{name: "crossref"}, []provider.Searcher{s2, cr}, s2, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "neural machine translation")
	if out.Kind != types.OutcomeResolved {
		t.Fatalf("Kind = %v, want resolved (titles dedupe to one)", out.Kind)
	}
	// Semantic Scholar is declared first, so its copy wins the dedup.
	if out.Paper.Venue != "from-s2" {
		t.Errorf("surviving copy = %q, want declaration-order winner", out.Paper.Venue)
	}
}

func TestResolveTitleAmbiguousCappedAtFive(t *testing.T) {
	var results []types.Paper
	for i := 0; i < 8; i++ {
		results = append(results, types.Paper{
			Title: fmt.Sprintf("graph neural networks survey %d", i),
			Year:  "2020",
		})
	}
	s := &fakeSearcher{name: "semantic_scholar", results: results}
	r := New(&fakeFetcher{name: "crossref"}, []provider.Searcher{s}, s, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "graph neural networks")
	if out.Kind != types.OutcomeAmbiguous {
		t.Fatalf("Kind = %v, want ambiguous", out.Kind)
	}
	if len(out.Candidates) != 5 {
		t.Errorf("candidates = %d, want capped at 5", len(out.Candidates))
	}
}

func TestResolveTitleOneSearcherFailing(t *testing.T) {
	broken := &fakeSearcher{name: "semantic_scholar", err: errors.New("HTTP 500")}
	working := &fakeSearcher{name: "crossref", results: []types.Paper{
		{Title: "a working result", Year: "2021"},
	}}
	r := New(&fakeFetcher{name: "crossref"}, []provider.Searcher{broken, working}, broken, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "a working result")
	if out.Kind != types.OutcomeResolved {
		t.Fatalf("Kind = %v, one failed provider must not abort the other", out.Kind)
	}
}

func TestResolveTitleBothQueried(t *testing.T) {
	a := &fakeSearcher{name: "semantic_scholar"}
	b := &fakeSearcher{name: "crossref"}
	r := New(&fakeFetcher{name: "crossref"}, []provider.Searcher{a, b}, a, types.DefaultResolveConfig(), zap.NewNop())

	out := r.Resolve(context.Background(), "an obscure query")
	if out.Kind != types.OutcomeNotFound {
		t.Fatalf("Kind = %v, want not_found", out.Kind)
	}
	if len(a.queries) != 1 || len(b.queries) != 1 {
		t.Errorf("queries = %d/%d, want both searchers consulted", len(a.queries), len(b.queries))
	}
}

func TestSearchTitleValidation(t *testing.T) {
	r := New(&fakeFetcher{name: "crossref"}, nil, nil, types.DefaultResolveConfig(), zap.NewNop())

	if _, err := r.SearchTitle(context.Background(), "ab"); !errors.Is(err, types.ErrMalformedInput) {
		t.Errorf("short title: err = %v, want ErrMalformedInput", err)
	}

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := r.SearchTitle(context.Background(), string(long)); !errors.Is(err, types.ErrMalformedInput) {
		t.Errorf("long title: err = %v, want ErrMalformedInput", err)
	}
}

func TestSearchTitleCappedAtTen(t *testing.T) {
	var results []types.Paper
	for i := 0; i < 14; i++ {
		results = append(results, types.Paper{
			Title: fmt.Sprintf("diffusion models application %d", i),
		})
	}
	s := &fakeSearcher{name: "semantic_scholar", results: results}
	r := New(&fakeFetcher{name: "crossref"}, []provider.Searcher{s}, s, types.DefaultResolveConfig(), zap.NewNop())

	ranked, err := r.SearchTitle(context.Background(), "diffusion models")
	if err != nil {
		t.Fatalf("SearchTitle: %v", err)
	}
	if len(ranked) != 10 {
		t.Errorf("len(ranked) = %d, want capped at 10", len(ranked))
	}
}
