// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [references...]",
	Short: "Resolve references and write a downloadable reference file",
	Long: `Export resolves each reference and writes the list in a structured
export format (bibtex, endnote, csl) or any citation style as plain text.
The output goes to --output, or to a file named after the format in the
current directory.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "bibtex", "export format: bibtex, endnote, csl, or a citation style")
	exportCmd.Flags().String("output", "", "output path (default: format-specific name in the current directory)")
	exportCmd.Flags().Bool("stdout", false, "write the export to stdout instead of a file")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	text, err := readReferences(args)
	if err != nil {
		return err
	}

	p := newPipeline(resolveConfig())
	exp, err := p.orch.ExportBatch(context.Background(), text, format)
	if err != nil {
		return err
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout {
		fmt.Print(exp.Content)
		return nil
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = exp.Filename
	}
	if err := os.WriteFile(path, []byte(exp.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
