// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/cite"
)

var formatCmd = &cobra.Command{
	Use:   "format [references...]",
	Short: "Resolve references and render them in a citation style",
	Long: `Format resolves each reference (one per argument, or one per line on
stdin) against CrossRef and Semantic Scholar and prints the formatted
citation. Unresolved lines print a not-found message; ambiguous lines list
their candidates so one can be picked and re-run as a DOI.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("style", "apa", "citation style: "+strings.Join(cite.Styles(), ", "))
	formatCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	styleFlag, _ := cmd.Flags().GetString("style")
	style, err := cite.ParseStyle(styleFlag)
	if err != nil {
		return err
	}

	text, err := readReferences(args)
	if err != nil {
		return err
	}

	p := newPipeline(resolveConfig())
	res, err := p.orch.Format(context.Background(), text, style)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	for _, line := range res.Formatted {
		fmt.Println(line)
	}
	for _, group := range res.Ambiguous {
		fmt.Fprintf(os.Stderr, "\nLine %d (%q) matched %d papers:\n",
			group.Index+1, group.Query, len(group.Options))
		for _, opt := range group.Options {
			fmt.Fprintf(os.Stderr, "  [%d] %s\n", opt.ID+1, opt.Formatted)
		}
	}
	if len(res.NotFound) > 0 {
		return fmt.Errorf("%d reference(s) not found", len(res.NotFound))
	}
	return nil
}
