// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search providers for papers matching a title",
	Long: `Search queries CrossRef and Semantic Scholar for papers whose title
matches the query, merges and deduplicates the results, and prints them
ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	p := newPipeline(resolveConfig())
	papers, err := p.resolver.SearchTitle(context.Background(), query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-60s  %-6s  %s\n", "Rank", "Title", "Year", "DOI")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for i, paper := range papers {
		title := paper.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-60s  %-6s  %s\n", i+1, title, paper.Year, paper.DOI)
	}
	return nil
}
