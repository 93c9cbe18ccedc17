package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/juristext/internal/export"
	"github.com/dgallion1/juristext/internal/pipeline"
)

const (
	defaultDir     = "data/decisoes"
	defaultCSVName = "decisoes_extraidas.csv"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [dir]",
		Short: "Extract every decision in a directory into a CSV file",
		Long: `Extract reads every PDF in dir (default data/decisoes), in file name
order, and writes the successfully reconstructed decisions to a single
CSV file with the columns arquivo;numero_processo;decisao_completa.

Example:
  juristext extract data/decisoes
  juristext extract data/decisoes --out decisoes.csv --sqlite decisoes.db --workers 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultDir
			if len(args) > 0 {
				dir = args[0]
			}
			out, _ := cmd.Flags().GetString("out")
			sqlitePath, _ := cmd.Flags().GetString("sqlite")
			workers, _ := cmd.Flags().GetInt("workers")
			patternsFile, _ := cmd.Flags().GetString("patterns")
			allExt, _ := cmd.Flags().GetBool("all-ext")

			cfg, log, p, err := setup(cmd, patternsFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Workers
			}
			if out == "" {
				out = filepath.Join(dir, defaultCSVName)
			}

			sinks := []export.Sink{export.NewCSVSink(out)}
			if sqlitePath != "" {
				db, err := export.OpenSQLite(sqlitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				sinks = append(sinks, db)
			}

			r := &pipeline.Runner{
				Pipeline:      p,
				Sinks:         sinks,
				Reporter:      pipeline.LogReporter{Log: log},
				Workers:       workers,
				DocTimeout:    cfg.DocTimeout,
				AllExtensions: allExt,
			}

			log.Info("starting extraction", "dir", dir, "workers", workers)
			sum, runErr := r.Run(cmd.Context(), dir)
			if sum.Total > 0 || runErr == nil {
				printSummary(cmd.OutOrStdout(), sum)
			}
			return runErr
		},
	}

	cmd.Flags().String("out", "", "CSV output file (default <dir>/"+defaultCSVName+")")
	cmd.Flags().String("sqlite", "", "Also store results in this SQLite database")
	cmd.Flags().Int("workers", 1, "Documents processed in parallel (default JURISTEXT_WORKERS)")
	cmd.Flags().String("patterns", "", "YAML file with header, footer and section patterns")
	cmd.Flags().Bool("all-ext", false, "Process every supported format, not only PDF")

	return cmd
}

func printSummary(w io.Writer, sum pipeline.Summary) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "RESUMO DO PROCESSAMENTO")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total de arquivos: %d\n", sum.Total)
	fmt.Fprintf(w, "Processados com sucesso: %d\n", sum.Succeeded)
	fmt.Fprintf(w, "Com erro: %d\n", sum.Failed)
	if len(sum.Outputs) > 0 {
		fmt.Fprintf(w, "\nArquivos gerados:\n")
		for _, o := range sum.Outputs {
			fmt.Fprintf(w, "  - %s\n", o)
		}
	}
	if len(sum.Failures) > 0 {
		fmt.Fprintf(w, "\nFalhas:\n")
		for _, f := range sum.Failures {
			fmt.Fprintf(w, "  - %s [%s]: %s\n", f.Source, f.Kind, f.Error)
		}
	}
	fmt.Fprintln(w, rule)
}
