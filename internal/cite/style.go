// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite renders canonical paper records into citation styles and
// export formats. Rendering is pure: no I/O, every missing field falls back
// to its sentinel string.
package cite

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Style is a citation style tag. The set is closed; ParseStyle validates
// caller input against it.
type Style string

const (
	StyleAPA       Style = "apa"
	StyleMLA       Style = "mla"
	StyleChicago   Style = "chicago"
	StyleHarvard   Style = "harvard"
	StyleVancouver Style = "vancouver"
	StyleIEEE      Style = "ieee"
	StyleAMA       Style = "ama"
	StyleASA       Style = "asa"
)

// msgNoResults is rendered in place of a citation when resolution produced
// no paper for a line.
const msgNoResults = "No results found"

// rule bundles the three orthogonal formatting decisions a style makes:
// how one author is written, how an author list is joined, and the
// citation template combining authors, title, venue, and year.
type rule struct {
	author   func(types.Author) string
	join     func([]string) string
	template func(authors, title, venue, year string) string
}

var rules = map[Style]rule{
	StyleAPA: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s (%s). %s. %s.", a, y, t, v)
	}},
	StyleMLA: {authorFull, joinOxfordAnd, func(a, t, v, y string) string {
		return fmt.Sprintf("%s. \"%s.\" %s, %s.", a, t, v, y)
	}},
	StyleChicago: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s. \"%s.\" %s %s.", a, t, v, y)
	}},
	StyleHarvard: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s (%s) '%s', %s.", a, y, t, v)
	}},
	StyleVancouver: {authorInitialNoComma, joinComma, func(a, t, v, y string) string {
		return fmt.Sprintf("%s. %s. %s. %s.", a, t, v, y)
	}},
	StyleIEEE: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s, \"%s,\" %s, %s.", a, t, v, y)
	}},
	StyleAMA: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s. %s. %s. %s.", a, t, v, y)
	}},
	StyleASA: {authorDefault, joinAmpersand, func(a, t, v, y string) string {
		return fmt.Sprintf("%s. %s. \"%s.\" %s.", a, y, t, v)
	}},
}

// ParseStyle validates a style name. Unsupported names are a client error.
func ParseStyle(s string) (Style, error) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[style]; !ok {
		return "", fmt.Errorf("%w: unsupported citation style %q", types.ErrMalformedInput, s)
	}
	return style, nil
}

// Styles lists the supported style names, sorted, for usage messages.
func Styles() []string {
	names := make([]string, 0, len(rules))
	for s := range rules {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// Format renders one paper in the given style. A nil paper renders the
// no-results message so batch output keeps its line count.
func Format(p *types.Paper, style Style) string {
	if p == nil {
		return msgNoResults
	}

	r, ok := rules[style]
	if !ok {
		r = rules[StyleAPA]
	}

	title := fallback(p.Title, types.UnknownTitle)
	year := fallback(p.Year, types.UnknownYear)
	venue := FormatVenue(p.Venue, year)
	authors := FormatAuthors(p.Authors, style)

	return r.template(authors, title, venue, year)
}

// FormatAuthors renders an author list in the given style. An empty list
// yields the "Unknown author" sentinel, and a single author never gets a
// separator.
func FormatAuthors(authors []types.Author, style Style) string {
	if len(authors) == 0 {
		return types.UnknownAuthor
	}

	r, ok := rules[style]
	if !ok {
		r = rules[StyleAPA]
	}

	entries := make([]string, len(authors))
	for i, a := range authors {
		entries[i] = r.author(a)
	}
	if len(entries) == 1 {
		return entries[0]
	}
	return r.join(entries)
}

// --- author entry formats ---

func familyOrUnknown(a types.Author) string {
	if a.Family == "" {
		return types.UnknownFamily
	}
	return a.Family
}

// authorFull writes "Family, Given" (mla).
func authorFull(a types.Author) string {
	family := familyOrUnknown(a)
	if a.Given == "" {
		return family
	}
	return family + ", " + a.Given
}

// authorInitialNoComma writes "Family G" (vancouver).
func authorInitialNoComma(a types.Author) string {
	family := familyOrUnknown(a)
	if a.Given == "" {
		return family
	}
	return family + " " + initial(a.Given)
}

// authorDefault writes "Family, G." (all remaining text styles).
func authorDefault(a types.Author) string {
	family := familyOrUnknown(a)
	if a.Given == "" {
		return family
	}
	return family + ", " + initial(a.Given) + "."
}

func initial(given string) string {
	return string([]rune(given)[0])
}

// --- author list joins ---

func joinOxfordAnd(entries []string) string {
	return strings.Join(entries[:len(entries)-1], ", ") + ", and " + entries[len(entries)-1]
}

func joinComma(entries []string) string {
	return strings.Join(entries, ", ")
}

func joinAmpersand(entries []string) string {
	return strings.Join(entries[:len(entries)-1], ", ") + " & " + entries[len(entries)-1]
}

// --- venue ---

// conferenceKeywords flag a venue as conference proceedings when any of
// them occurs as a case-insensitive substring.
var conferenceKeywords = []string{
	"proceedings", "conference", "cvpr", "iccv", "eccv",
	"nips", "icml", "aaai", "ijcai", "acl", "emnlp",
}

var commaRun = regexp.MustCompile(`\s*,\s*`)

// FormatVenue normalizes a venue string for citation text. Conference
// venues get the "Proceedings of the " prefix; when the venue embeds the
// paper's own year token it is stripped along with one stray comma run.
// Anything else passes through unchanged.
func FormatVenue(venue, year string) string {
	if venue == "" {
		return types.UnknownJournal
	}

	lower := strings.ToLower(venue)
	conference := false
	for _, kw := range conferenceKeywords {
		if strings.Contains(lower, kw) {
			conference = true
			break
		}
	}
	if !conference {
		return venue
	}

	clean := venue
	if year != "" && year != types.UnknownYear && strings.Contains(clean, year) {
		clean = strings.Replace(clean, year, "", 1)
		if loc := commaRun.FindStringIndex(clean); loc != nil {
			clean = clean[:loc[0]] + clean[loc[1]:]
		}
		clean = strings.TrimSpace(clean)
	}
	return "Proceedings of the " + clean
}

func fallback(s, sentinel string) string {
	if strings.TrimSpace(s) == "" {
		return sentinel
	}
	return s
}
