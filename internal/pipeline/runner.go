package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/juristext/internal/doctree"
	"github.com/dgallion1/juristext/internal/export"
	"github.com/dgallion1/juristext/internal/source"
)

// Summary is the outcome of one batch run.
type Summary struct {
	Total     int       `json:"total_arquivos"`
	Succeeded int       `json:"processados_com_sucesso"`
	Failed    int       `json:"com_erro"`
	Outputs   []string  `json:"saidas,omitempty"`
	Failures  []Failure `json:"falhas,omitempty"`
}

// Failure records one document that could not be processed.
type Failure struct {
	Source string `json:"arquivo"`
	Kind   string `json:"tipo_erro"`
	Error  string `json:"erro"`
}

// Runner processes a directory of decisions and exports the successes.
type Runner struct {
	Pipeline *Pipeline
	Sinks    []export.Sink
	Reporter Reporter

	// Workers bounds how many documents are processed at once.
	Workers int
	// DocTimeout bounds a single document; zero means no limit.
	DocTimeout time.Duration
	// AllExtensions includes every supported format, not only PDFs.
	AllExtensions bool
}

// Run processes every matching file in dir, in name order. Per-document
// failures are counted in the Summary; only listing and export failures
// are returned as errors.
func (r *Runner) Run(ctx context.Context, dir string) (Summary, error) {
	files, err := r.list(dir)
	if err != nil {
		return Summary{}, err
	}

	inputs := make([]Input, len(files))
	for i, f := range files {
		inputs[i] = Input{Path: f}
	}
	results := r.Process(ctx, inputs)

	sum := Summarize(results)

	ok := Successes(results)
	var errs []error
	for _, s := range r.Sinks {
		if err := s.Write(ctx, ok); err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", s.Target(), err))
			continue
		}
		sum.Outputs = append(sum.Outputs, s.Target())
	}
	return sum, errors.Join(errs...)
}

// Process runs the pipeline over inputs with the configured worker count.
// Results are returned in input order.
func (r *Runner) Process(ctx context.Context, inputs []Input) []doctree.Result {
	rep := r.Reporter
	if rep == nil {
		rep = nopReporter{}
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]doctree.Result, len(inputs))
	idx := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				in := inputs[i]
				name := in.Name
				if name == "" {
					name = filepath.Base(in.Path)
				}
				rep.Started(i+1, len(inputs), name)
				results[i] = r.processOne(ctx, in)
				rep.Finished(i+1, len(inputs), results[i])
			}
		}()
	}

	for i := range inputs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results
}

func (r *Runner) processOne(ctx context.Context, in Input) doctree.Result {
	if r.DocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.DocTimeout)
		defer cancel()
	}
	return r.Pipeline.ProcessInput(ctx, in)
}

func (r *Runner) list(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if r.AllExtensions {
			if !source.IsSupportedExtension(name) {
				continue
			}
		} else if filepath.Ext(name) != ".pdf" {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Successes returns the successful results, keeping their order.
func Successes(results []doctree.Result) []doctree.Result {
	var ok []doctree.Result
	for _, res := range results {
		if res.Success {
			ok = append(ok, res)
		}
	}
	return ok
}

// Summarize counts successes and failures in results.
func Summarize(results []doctree.Result) Summary {
	sum := Summary{Total: len(results)}
	for _, res := range results {
		if res.Success {
			sum.Succeeded++
			continue
		}
		sum.Failed++
		sum.Failures = append(sum.Failures, Failure{Source: res.Source, Kind: res.ErrorKind, Error: res.Error})
	}
	return sum
}
