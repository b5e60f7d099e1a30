// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/cite"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi>",
	Short: "Resolve a single DOI to its paper metadata",
	Long: `Lookup resolves one DOI against CrossRef (falling back to a Semantic
Scholar search when the DOI is unregistered) and prints the paper metadata,
or a formatted citation with --style.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("style", "", "render as a citation in this style instead of metadata")
	lookupCmd.Flags().Bool("json", false, "output the paper as JSON")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	p := newPipeline(resolveConfig())
	paper, err := p.resolver.LookupDOI(context.Background(), args[0])
	if err != nil {
		return err
	}
	if paper == nil {
		return fmt.Errorf("no paper found for DOI %s", args[0])
	}

	if styleFlag, _ := cmd.Flags().GetString("style"); styleFlag != "" {
		style, err := cite.ParseStyle(styleFlag)
		if err != nil {
			return err
		}
		fmt.Println(cite.Format(paper, style))
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(paper)
	}

	fmt.Printf("Title:   %s\n", paper.Title)
	fmt.Printf("Authors: %s\n", cite.FormatAuthors(paper.Authors, cite.StyleMLA))
	fmt.Printf("Venue:   %s\n", paper.Venue)
	fmt.Printf("Year:    %s\n", paper.Year)
	fmt.Printf("DOI:     %s\n", paper.DOI)
	return nil
}
