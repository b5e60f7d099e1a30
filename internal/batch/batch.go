// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch applies the resolution and formatting pipeline across a
// multi-line reference list. Lines are processed independently: one line
// failing to resolve never aborts the rest, it only degrades that line's
// own outcome.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-engine/internal/cite"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Messages rendered in place of a citation for unresolvable lines.
const (
	msgNotFound = "No results found"
	msgMultiple = "Multiple matches found - please select one"
)

// Resolver resolves one reference string. Satisfied by resolve.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, ref string) types.Outcome
}

// NotFoundEntry locates one unresolved line in the input.
type NotFoundEntry struct {
	Index int    `json:"index"`
	Query string `json:"query"`
}

// Option is one candidate offered for an ambiguous line, with its
// pre-rendered citation so a caller can show choices directly.
type Option struct {
	ID int `json:"id"`
	types.Paper
	Formatted string `json:"formatted"`
}

// AmbiguousGroup collects the candidate options for one ambiguous line.
type AmbiguousGroup struct {
	Index   int      `json:"index"`
	Query   string   `json:"query"`
	Options []Option `json:"options"`
}

// Result is the aggregate outcome of formatting a reference list. The
// Formatted and Papers slices are parallel to the trimmed non-blank input
// lines; unresolved and ambiguous lines hold a message and a nil paper.
type Result struct {
	Formatted []string         `json:"formatted"`
	NotFound  []NotFoundEntry  `json:"notFound"`
	Ambiguous []AmbiguousGroup `json:"multipleMatches"`
	Papers    []*types.Paper   `json:"papers"`
	Style     string           `json:"format"`
}

// Export is a downloadable rendering of a reference list.
type Export struct {
	Content     string
	Filename    string
	ContentType string
}

// Orchestrator runs the per-line pipeline over reference lists.
type Orchestrator struct {
	resolver Resolver
	log      *zap.Logger
}

// New builds an Orchestrator around a resolver.
func New(resolver Resolver, log *zap.Logger) *Orchestrator {
	return &Orchestrator{resolver: resolver, log: log}
}

// SplitLines splits a reference block into trimmed, non-blank lines.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Format resolves every line and renders it in the given style. The result
// preserves input line order; a line that resolves ambiguously contributes
// its candidate group, and a line that fails contributes a not-found entry.
func (o *Orchestrator) Format(ctx context.Context, text string, style cite.Style) (Result, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("%w: no references provided", types.ErrMalformedInput)
	}

	res := Result{
		Formatted: make([]string, 0, len(lines)),
		NotFound:  []NotFoundEntry{},
		Ambiguous: []AmbiguousGroup{},
		Papers:    make([]*types.Paper, 0, len(lines)),
		Style:     string(style),
	}

	for i, line := range lines {
		out := o.resolver.Resolve(ctx, line)
		switch out.Kind {
		case types.OutcomeResolved:
			res.Formatted = append(res.Formatted, cite.Format(out.Paper, style))
			res.Papers = append(res.Papers, out.Paper)

		case types.OutcomeAmbiguous:
			options := make([]Option, len(out.Candidates))
			for id, c := range out.Candidates {
				options[id] = Option{
					ID:        id,
					Paper:     c,
					Formatted: cite.Format(&c, style),
				}
			}
			res.Ambiguous = append(res.Ambiguous, AmbiguousGroup{Index: i, Query: line, Options: options})
			res.Formatted = append(res.Formatted, msgMultiple)
			res.Papers = append(res.Papers, nil)

		default:
			if out.Kind == types.OutcomeError {
				o.log.Warn("reference resolution failed",
					zap.Int("line", i),
					zap.String("reason", out.Reason))
			}
			res.Formatted = append(res.Formatted, msgNotFound)
			res.NotFound = append(res.NotFound, NotFoundEntry{Index: i, Query: line})
			res.Papers = append(res.Papers, nil)
		}
	}
	return res, nil
}

// ExportBatch resolves every line and renders the list in an export format:
// BibTeX, EndNote, CSL-YAML, or any citation style as plain text. Only
// uniquely resolved lines contribute a record; unresolved and ambiguous
// lines keep their position as empty (structured formats) or not-found
// (text) entries.
func (o *Orchestrator) ExportBatch(ctx context.Context, text, format string) (Export, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return Export{}, fmt.Errorf("%w: no references provided", types.ErrMalformedInput)
	}

	format, err := cite.ParseExportFormat(format)
	if err != nil {
		return Export{}, err
	}

	papers := make([]*types.Paper, len(lines))
	for i, line := range lines {
		out := o.resolver.Resolve(ctx, line)
		if out.Kind == types.OutcomeResolved {
			papers[i] = out.Paper
		}
	}

	switch format {
	case cite.FormatBibTeX:
		entries := make([]string, len(papers))
		for i, p := range papers {
			entries[i] = cite.FormatBibTeXEntry(p, i+1)
		}
		return Export{
			Content:     strings.Join(entries, "\n\n"),
			Filename:    "references.bib",
			ContentType: "application/x-bibtex",
		}, nil

	case cite.FormatEndNote:
		entries := make([]string, len(papers))
		for i, p := range papers {
			entries[i] = cite.FormatEndNoteEntry(p)
		}
		return Export{
			Content:     strings.Join(entries, "\n\n"),
			Filename:    "references.enw",
			ContentType: "application/x-endnote-refer",
		}, nil

	case cite.FormatCSL:
		var buf bytes.Buffer
		if err := cite.WriteCSL(papers, &buf); err != nil {
			return Export{}, fmt.Errorf("encoding CSL: %w", err)
		}
		return Export{
			Content:     buf.String(),
			Filename:    "references.yaml",
			ContentType: "application/x-yaml",
		}, nil

	default:
		style, err := cite.ParseStyle(format)
		if err != nil {
			return Export{}, err
		}
		entries := make([]string, len(papers))
		for i, p := range papers {
			entries[i] = cite.Format(p, style)
		}
		return Export{
			Content:     strings.Join(entries, "\n\n"),
			Filename:    fmt.Sprintf("references_%s.txt", style),
			ContentType: "text/plain",
		}, nil
	}
}
