// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared as
// a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,venue,year,externalIds"

// semanticSearchLimit is how many candidates one title search requests.
const semanticSearchLimit = 10

// SemanticClient queries the Semantic Scholar Graph API paper search.
type SemanticClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	apiKey    string
	collector *metrics.Collector
	log       *zap.Logger
}

// NewSemanticScholar builds a Semantic Scholar adapter. An API key is
// optional and only raises rate limits.
func NewSemanticScholar(cfg types.ResolveConfig, collector *metrics.Collector, log *zap.Logger) *SemanticClient {
	var limiter *rate.Limiter
	if cfg.ProviderRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ProviderRate), 1)
	}
	return &SemanticClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		userAgent: cfg.UserAgent,
		apiKey:    cfg.SemanticScholarAPIKey,
		collector: collector,
		log:       log,
	}
}

// Name returns the provider identifier.
func (c *SemanticClient) Name() string { return "semantic_scholar" }

// SearchByTitle queries the paper search endpoint and returns the
// candidates whose titles contain the query. Display names are split into
// family/given parts: last token family, remainder given.
func (c *SemanticClient) SearchByTitle(ctx context.Context, title string) ([]types.Paper, error) {
	c.log.Debug("semantic scholar title search", zap.String("query", title))
	start := time.Now()

	params := url.Values{
		"query":  {title},
		"limit":  {strconv.Itoa(semanticSearchLimit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	var sr semanticResponse
	err = httputil.GetJSON(req, c.client, c.limiter, &sr)
	c.collector.RecordCall(c.Name(), time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar title search: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		papers = append(papers, paperFromSemantic(sp))
	}
	return filterMatches(papers, title), nil
}

func paperFromSemantic(sp semanticPaper) types.Paper {
	p := types.Paper{
		Title: types.UnknownTitle,
		Venue: types.UnknownJournal,
		Year:  types.UnknownYear,
		DOI:   sp.ExternalIDs.DOI,
	}
	if sp.Title != "" {
		p.Title = sp.Title
	}
	for _, a := range sp.Authors {
		p.Authors = append(p.Authors, splitDisplayName(a.Name))
	}
	if sp.Venue != "" {
		p.Venue = sp.Venue
	}
	if sp.Year > 0 {
		p.Year = strconv.Itoa(sp.Year)
	}
	return p
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Venue       string              `json:"venue"`
	Year        int                 `json:"year"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
}
