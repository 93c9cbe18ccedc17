package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/juristext/internal/config"
	"github.com/dgallion1/juristext/internal/patterns"
	"github.com/dgallion1/juristext/internal/pipeline"
	"github.com/dgallion1/juristext/internal/source"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "juristext",
		Short: "Court decision text reconstruction",
		Long: `juristext rebuilds the text of court decisions from PDF renderings.

It strips court letterheads, certification footers and page markers,
rejoins lines broken by the page layout, marks the RELATORIO,
FUNDAMENTACAO and DISPOSITIVO sections as Markdown headings and
resolves the case number (numero do processo) of every decision.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file (default .env)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "juristext %s\n", version)
		},
	}
}

// setup loads configuration and builds the logger and the document pipeline
// shared by every command. patternsFile overrides JURISTEXT_PATTERNS when set.
func setup(cmd *cobra.Command, patternsFile string) (config.Config, *slog.Logger, *pipeline.Pipeline, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return config.Config{}, nil, nil, err
	}

	cfg := config.Load()
	if patternsFile != "" {
		cfg.PatternsFile = patternsFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := cfg.Logger()

	set, err := patterns.Load(cfg.PatternsFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	p := pipeline.New(set, source.Options{PDFFallback: cfg.PDFFallback}, log)
	p.MaxErrorLen = cfg.MaxErrorLen
	return cfg, log, p, nil
}
