// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-JSON/CSL-YAML schema so output is consumable
// by Pandoc and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Venue  string    `yaml:"container-title,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
}

// CSLName is a person's name in CSL family/given form.
type CSLName struct {
	Family string `yaml:"family,omitempty"`
	Given  string `yaml:"given,omitempty"`
}

// CSLDate is a CSL date-parts date.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes the resolved papers as a CSL-YAML list to w. Nil entries
// (unresolved lines) are skipped; entry IDs fall back to refN when a paper
// has no DOI.
func WriteCSL(papers []*types.Paper, w io.Writer) error {
	var items []CSLItem
	for i, p := range papers {
		if p == nil {
			continue
		}
		items = append(items, toCSLItem(p, i+1))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(p *types.Paper, index int) CSLItem {
	item := CSLItem{
		ID:    p.DOI,
		Type:  "article-journal",
		Title: fallback(p.Title, types.UnknownTitle),
		DOI:   p.DOI,
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("ref%d", index)
	}
	if p.Venue != "" && p.Venue != types.UnknownJournal {
		item.Venue = p.Venue
	}
	for _, a := range p.Authors {
		item.Author = append(item.Author, CSLName{Family: a.Family, Given: a.Given})
	}
	if y := p.YearInt(); y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}
