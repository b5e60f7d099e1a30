// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Structured export format names. ParseExportFormat also accepts any
// citation style, which exports as plain text.
const (
	FormatBibTeX  = "bibtex"
	FormatEndNote = "endnote"
	FormatCSL     = "csl"
)

// ParseExportFormat validates an export format name: a structured format
// or one of the citation styles.
func ParseExportFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))
	switch format {
	case FormatBibTeX, FormatEndNote, FormatCSL:
		return format, nil
	}
	if _, err := ParseStyle(format); err != nil {
		return "", fmt.Errorf("%w: unsupported export format %q", types.ErrMalformedInput, s)
	}
	return format, nil
}

// FormatBibTeXEntry renders one paper as a BibTeX article entry. index is
// the 1-based position of the entry in the reference list and forms the
// entry key. A nil paper renders empty, preserving batch line positions.
func FormatBibTeXEntry(p *types.Paper, index int) string {
	if p == nil {
		return ""
	}

	authors := types.UnknownAuthor
	if len(p.Authors) > 0 {
		entries := make([]string, len(p.Authors))
		for i, a := range p.Authors {
			entries[i] = authorFull(a)
		}
		authors = strings.Join(entries, " and ")
	}

	return fmt.Sprintf("@article{ref%d,\n  title={%s},\n  author={%s},\n  journal={%s},\n  year={%s},\n  doi={%s}\n}",
		index,
		fallback(p.Title, types.UnknownTitle),
		authors,
		fallback(p.Venue, types.UnknownJournal),
		fallback(p.Year, types.UnknownYear),
		p.DOI)
}

// FormatEndNoteEntry renders one paper as an EndNote tagged record, one
// %A line per author written "Given Family". A nil paper renders empty.
func FormatEndNoteEntry(p *types.Paper) string {
	if p == nil {
		return ""
	}

	var lines []string
	lines = append(lines, "%0 Journal Article")
	lines = append(lines, "%T "+fallback(p.Title, types.UnknownTitle))

	if len(p.Authors) == 0 {
		lines = append(lines, "%A "+types.UnknownAuthor)
	}
	for _, a := range p.Authors {
		name := familyOrUnknown(a)
		if a.Given != "" {
			name = a.Given + " " + name
		}
		lines = append(lines, "%A "+name)
	}

	lines = append(lines, "%J "+fallback(p.Venue, types.UnknownJournal))
	lines = append(lines, "%D "+fallback(p.Year, types.UnknownYear))
	lines = append(lines, "%R "+p.DOI)
	lines = append(lines, "%U https://doi.org/"+p.DOI)
	return strings.Join(lines, "\n")
}
