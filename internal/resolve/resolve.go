// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-engine/internal/provider"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Title search length bounds enforced at the boundary.
const (
	minTitleLen = 3
	maxTitleLen = 500
)

// Resolver dispatches reference queries to the provider adapters and
// collapses the combined candidates into an outcome.
type Resolver struct {
	fetcher   provider.Fetcher
	searchers []provider.Searcher
	fallback  provider.Searcher
	cfg       types.ResolveConfig
	log       *zap.Logger
}

// New builds a Resolver. The searcher order matters: combined title-search
// candidates keep declaration order, so the first searcher's results win
// dedup ties. fallback is the searcher consulted when a DOI lookup against
// fetcher comes up empty.
func New(fetcher provider.Fetcher, searchers []provider.Searcher, fallback provider.Searcher, cfg types.ResolveConfig, log *zap.Logger) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		searchers: searchers,
		fallback:  fallback,
		cfg:       cfg,
		log:       log,
	}
}

// Resolve classifies one reference string and resolves it. DOI references
// yield Resolved or NotFound; title references may also yield Ambiguous,
// capped at MaxFormatCandidates. Adapter failures degrade to empty results
// and never surface as errors.
func (r *Resolver) Resolve(ctx context.Context, ref string) types.Outcome {
	kind, query := Classify(ref)
	r.log.Debug("resolving reference",
		zap.String("kind", kind.String()),
		zap.String("query", query))

	if kind == QueryDOI {
		p := r.lookupDOI(ctx, query)
		if p == nil {
			return types.NotFound()
		}
		return types.Resolved(p)
	}

	ranked := Rank(r.searchAll(ctx, query), query)
	return Collapse(ranked, r.cfg.MaxFormatCandidates)
}

// LookupDOI resolves a validated DOI to at most one paper. A malformed DOI
// is a client error; a clean miss returns (nil, nil).
func (r *Resolver) LookupDOI(ctx context.Context, doi string) (*types.Paper, error) {
	doi = strings.TrimSpace(doi)
	if !ValidDOI(doi) {
		return nil, fmt.Errorf("%w: invalid DOI %q", types.ErrMalformedInput, doi)
	}
	return r.lookupDOI(ctx, doi), nil
}

// SearchTitle resolves a free-text title to a ranked candidate list, capped
// at MaxSearchResults.
func (r *Resolver) SearchTitle(ctx context.Context, title string) ([]types.Paper, error) {
	title = strings.TrimSpace(title)
	if len(title) < minTitleLen || len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be between %d and %d characters",
			types.ErrMalformedInput, minTitleLen, maxTitleLen)
	}

	ranked := Rank(r.searchAll(ctx, title), title)
	if max := r.cfg.MaxSearchResults; max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked, nil
}

// lookupDOI queries the primary fetcher. When that yields nothing and the
// fallback policy is enabled, the DOI string itself is reused as a
// title-search query against the fallback searcher; the top-ranked
// candidate, if any, is returned. The DOI path yields zero or one paper.
func (r *Resolver) lookupDOI(ctx context.Context, doi string) *types.Paper {
	p, err := r.fetcher.FetchByDOI(ctx, doi)
	if err != nil {
		r.log.Warn("DOI lookup failed",
			zap.String("provider", r.fetcher.Name()),
			zap.String("doi", doi),
			zap.Error(err))
	}
	if p != nil {
		return p
	}
	if !r.cfg.DOIFallbackSearch || r.fallback == nil {
		return nil
	}

	r.log.Debug("falling back to title search with DOI as query",
		zap.String("provider", r.fallback.Name()),
		zap.String("doi", doi))
	candidates, err := r.fallback.SearchByTitle(ctx, doi)
	if err != nil {
		r.log.Warn("DOI fallback search failed",
			zap.String("provider", r.fallback.Name()),
			zap.Error(err))
		return nil
	}
	ranked := Rank(candidates, doi)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// searchAll queries every searcher concurrently and flattens the results in
// searcher declaration order, so output does not depend on completion
// order. A failed searcher contributes nothing; it never aborts the others.
func (r *Resolver) searchAll(ctx context.Context, query string) []types.Paper {
	results := make([][]types.Paper, len(r.searchers))

	var g errgroup.Group
	for i, s := range r.searchers {
		g.Go(func() error {
			papers, err := s.SearchByTitle(ctx, query)
			if err != nil {
				r.log.Warn("title search failed",
					zap.String("provider", s.Name()),
					zap.Error(err))
				return nil
			}
			results[i] = papers
			return nil
		})
	}
	g.Wait()

	var combined []types.Paper
	for _, rs := range results {
		combined = append(combined, rs...)
	}
	return combined
}
