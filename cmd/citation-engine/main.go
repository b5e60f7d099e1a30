// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI.
// Each pipeline flow is a subcommand: format, export, lookup, search,
// and serve.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citation-engine/internal/batch"
	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/internal/provider"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/internal/secrets"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in the persistent pre-run so every subcommand shares it.
var logger *zap.Logger

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Resolve bibliographic references and format citations",
	Long: `citation-engine resolves bibliographic references (DOIs or free-text
titles) against CrossRef and Semantic Scholar and renders them in standard
citation styles or structured export formats.

Each flow is a subcommand: format renders a reference list in a citation
style, export produces downloadable BibTeX/EndNote/CSL files, lookup and
search query a single identifier or title, and serve exposes the same
pipeline over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is the normal case outside development.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolveConfig builds the pipeline configuration from defaults, the config
// file, and loaded secrets. Environment variables override secret files.
func resolveConfig() types.ResolveConfig {
	cfg := types.DefaultResolveConfig()
	if t := viper.GetDuration("resolve.timeout"); t > 0 {
		cfg.Timeout = t
	}
	if ua := viper.GetString("resolve.user_agent"); ua != "" {
		cfg.UserAgent = ua
	}
	if n := viper.GetInt("resolve.max_search_results"); n > 0 {
		cfg.MaxSearchResults = n
	}
	if n := viper.GetInt("resolve.max_format_candidates"); n > 0 {
		cfg.MaxFormatCandidates = n
	}
	if r := viper.GetFloat64("resolve.provider_rate"); r > 0 {
		cfg.ProviderRate = r
	}
	if viper.IsSet("resolve.doi_fallback_search") {
		cfg.DOIFallbackSearch = viper.GetBool("resolve.doi_fallback_search")
	}

	cfg.SemanticScholarAPIKey = secrets.Value(loadedSecrets, secrets.KeySemanticScholar, "SEMANTIC_SCHOLAR_API_KEY")
	cfg.CrossrefMailto = secrets.Value(loadedSecrets, secrets.KeyCrossrefMailto, "CROSSREF_MAILTO")
	return cfg
}

// pipeline bundles the wired components a subcommand needs.
type pipeline struct {
	resolver  *resolve.Resolver
	orch      *batch.Orchestrator
	collector *metrics.Collector
}

// newPipeline wires providers, resolver, and orchestrator. CrossRef is the
// primary DOI source; Semantic Scholar leads title search and serves as the
// DOI fallback.
func newPipeline(cfg types.ResolveConfig) *pipeline {
	collector := metrics.New()
	crossref := provider.NewCrossref(cfg, collector, logger)
	semantic := provider.NewSemanticScholar(cfg, collector, logger)

	resolver := resolve.New(
		crossref,
		[]provider.Searcher{semantic, crossref},
		semantic,
		cfg,
		logger,
	)
	return &pipeline{
		resolver:  resolver,
		orch:      batch.New(resolver, logger),
		collector: collector,
	}
}

// readReferences returns the reference text for a batch command: the joined
// args (one reference per arg), or stdin when no args are given.
func readReferences(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading references from stdin: %w", err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
