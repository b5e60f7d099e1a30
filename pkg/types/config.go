package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-outbound-call ceiling. On expiry the call is
	// treated identically to any other provider failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the descriptive client identifier sent with every
	// provider request (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolveConfig holds settings for the resolution pipeline.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxSearchResults caps the ranked candidate list returned by the
	// standalone title-search flow (default 10).
	MaxSearchResults int `json:"max_search_results" yaml:"max_search_results"`

	// MaxFormatCandidates caps the ambiguous candidate set surfaced by the
	// format/batch flow (default 5).
	MaxFormatCandidates int `json:"max_format_candidates" yaml:"max_format_candidates"`

	// ProviderRate paces outbound calls per provider, in requests per
	// second. Zero disables pacing.
	ProviderRate float64 `json:"provider_rate" yaml:"provider_rate"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// CrossrefMailto is appended to the CrossRef User-Agent so requests
	// land in the polite pool.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// DOIFallbackSearch re-uses a DOI string as a title-search query
	// against the secondary provider when the ID-based lookup returns
	// nothing. Kept from the original fallback chain; disable to require
	// an exact identifier hit.
	DOIFallbackSearch bool `json:"doi_fallback_search" yaml:"doi_fallback_search"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// DefaultResolveConfig returns the resolution defaults: 10 s call timeout,
// candidate caps of 10 (search) and 5 (format), and the DOI fallback enabled.
func DefaultResolveConfig() ResolveConfig {
	return ResolveConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "citation-engine/0.1",
		},
		MaxSearchResults:    10,
		MaxFormatCandidates: 5,
		ProviderRate:        10,
		DOIFallbackSearch:   true,
	}
}
