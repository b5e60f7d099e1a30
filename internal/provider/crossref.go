// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
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

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const crossrefSelect = "DOI,title,author,container-title,published,event"

// crossrefSearchRows is how many candidates one title search requests.
const crossrefSearchRows = 10

// CrossrefClient queries the CrossRef REST API. It supports both lookup by
// DOI and free-text title search.
type CrossrefClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	collector *metrics.Collector
	log       *zap.Logger
}

// NewCrossref builds a CrossRef adapter. The mailto from cfg is appended to
// the User-Agent so requests are routed to CrossRef's polite pool.
func NewCrossref(cfg types.ResolveConfig, collector *metrics.Collector, log *zap.Logger) *CrossrefClient {
	ua := cfg.UserAgent
	if cfg.CrossrefMailto != "" {
		ua = fmt.Sprintf("%s (mailto:%s)", ua, cfg.CrossrefMailto)
	}
	var limiter *rate.Limiter
	if cfg.ProviderRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ProviderRate), 1)
	}
	return &CrossrefClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		userAgent: ua,
		collector: collector,
		log:       log,
	}
}

// Name returns the provider identifier.
func (c *CrossrefClient) Name() string { return "crossref" }

// FetchByDOI looks up a single work record. A 404 from CrossRef is a clean
// miss and returns (nil, nil); all other failures return an error.
func (c *CrossrefClient) FetchByDOI(ctx context.Context, doi string) (*types.Paper, error) {
	c.log.Debug("crossref DOI lookup", zap.String("doi", doi))
	start := time.Now()

	var cr crossrefWorkResponse
	err := c.getJSON(ctx, crossrefAPIBase+"/"+doi, &cr)
	c.collector.RecordCall(c.Name(), time.Since(start), err == nil)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("CrossRef DOI lookup: %w", err)
	}

	p := paperFromCrossrefWork(cr.Message, doi)
	return &p, nil
}

// SearchByTitle queries the works endpoint by free text and returns the
// candidates whose titles contain the query.
func (c *CrossrefClient) SearchByTitle(ctx context.Context, title string) ([]types.Paper, error) {
	c.log.Debug("crossref title search", zap.String("query", title))
	start := time.Now()

	params := url.Values{
		"query":  {title},
		"rows":   {strconv.Itoa(crossrefSearchRows)},
		"select": {crossrefSelect},
	}

	var cr crossrefSearchResponse
	err := c.getJSON(ctx, crossrefAPIBase+"?"+params.Encode(), &cr)
	c.collector.RecordCall(c.Name(), time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("CrossRef title search: %w", err)
	}

	papers := make([]types.Paper, 0, len(cr.Message.Items))
	for _, work := range cr.Message.Items {
		papers = append(papers, paperFromCrossrefWork(work, ""))
	}
	return filterMatches(papers, title), nil
}

func (c *CrossrefClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return httputil.GetJSON(req, c.client, c.limiter, v)
}

// paperFromCrossrefWork maps one CrossRef work onto the canonical record.
// Venue preference is container-title, then event name. fallbackDOI fills
// the DOI field when the record omits it (the DOI-lookup path knows it).
func paperFromCrossrefWork(w crossrefWork, fallbackDOI string) types.Paper {
	p := types.Paper{
		Title: types.UnknownTitle,
		Venue: types.UnknownJournal,
		Year:  types.UnknownYear,
		DOI:   w.DOI,
	}
	if len(w.Title) > 0 && w.Title[0] != "" {
		p.Title = w.Title[0]
	}
	for _, a := range w.Author {
		p.Authors = append(p.Authors, types.Author{Family: a.Family, Given: a.Given})
	}
	switch {
	case len(w.ContainerTitle) > 0 && w.ContainerTitle[0] != "":
		p.Venue = w.ContainerTitle[0]
	case w.Event.Name != "":
		p.Venue = w.Event.Name
	}
	if len(w.Published.DateParts) > 0 && len(w.Published.DateParts[0]) > 0 {
		p.Year = strconv.Itoa(w.Published.DateParts[0][0])
	}
	if p.DOI == "" {
		p.DOI = fallbackDOI
	}
	return p
}

// CrossRef API JSON structures.
type crossrefWorkResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefSearchResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	Author         []crossrefAuthor `json:"author"`
	ContainerTitle []string         `json:"container-title"`
	Published      crossrefDate     `json:"published"`
	Event          crossrefEvent    `json:"event"`
}

type crossrefAuthor struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

type crossrefEvent struct {
	Name string `json:"name"`
}
