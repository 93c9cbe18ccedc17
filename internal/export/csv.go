package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/juristext/internal/doctree"
)

// Separator is the CSV field delimiter. Legal prose is full of commas.
const Separator = ';'

// Columns is the CSV header row.
var Columns = []string{"arquivo", "numero_processo", "decisao_completa"}

// WriteCSV writes results as CSV with every field quoted. An absent case
// number is written as an empty quoted field.
func WriteCSV(w io.Writer, results []doctree.Result) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, Columns); err != nil {
		return err
	}
	for _, r := range results {
		if err := writeRecord(bw, []string{r.Source, r.CaseNumber, r.Text}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(Separator); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVSink writes a batch to a CSV file, replacing any previous content.
type CSVSink struct {
	path string
}

// NewCSVSink returns a sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Target() string { return s.path }
func (s *CSVSink) Close() error   { return nil }

func (s *CSVSink) Write(_ context.Context, results []doctree.Result) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
