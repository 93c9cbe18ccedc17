package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/juristext/internal/casenum"
	"github.com/dgallion1/juristext/internal/cleanup"
	"github.com/dgallion1/juristext/internal/doctree"
	"github.com/dgallion1/juristext/internal/outline"
	"github.com/dgallion1/juristext/internal/patterns"
	"github.com/dgallion1/juristext/internal/source"
)

// Stage is a step of document processing, used in logs.
type Stage string

const (
	StageOpened          Stage = "opened"
	StagePagesRead       Stage = "pages_read"
	StageLinesClassified Stage = "lines_classified"
	StageParagraphsBuilt Stage = "paragraphs_built"
	StageNumberResolved  Stage = "number_resolved"
	StageDone            Stage = "done"
	StageErrored         Stage = "errored"
)

// Failure kinds recorded in Result.ErrorKind.
const (
	KindSourceUnavailable = "source_unavailable"
	KindCancelled         = "cancelled"
	KindInternal          = "internal"
)

// DefaultMaxErrorLen bounds the underlying error text kept in a Result.
const DefaultMaxErrorLen = 50

// Pipeline turns one source document into a Result. It holds no per-document
// state, so one Pipeline may serve many goroutines.
type Pipeline struct {
	patterns   *patterns.Set
	classifier *cleanup.Classifier
	log        *slog.Logger
	opts       source.Options

	MaxErrorLen int
}

// New returns a Pipeline. A nil set uses the default patterns.
func New(set *patterns.Set, opts source.Options, log *slog.Logger) *Pipeline {
	if set == nil {
		set = patterns.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		patterns:    set,
		classifier:  cleanup.NewClassifier(set),
		log:         log,
		opts:        opts,
		MaxErrorLen: DefaultMaxErrorLen,
	}
}

// Input names one document to process, either on disk (Path) or in memory
// (Data).
type Input struct {
	Name string
	Path string
	Data []byte
}

// ProcessInput opens in and processes it. Open failures become
// source_unavailable results.
func (p *Pipeline) ProcessInput(ctx context.Context, in Input) doctree.Result {
	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}

	var src source.Source
	var err error
	if in.Data != nil {
		src, err = source.OpenBytes(name, in.Data, p.opts)
	} else {
		src, err = source.Open(in.Path, p.opts)
	}
	if err != nil {
		p.log.Warn("open failed", "source", name, "stage", StageErrored, "error", err)
		return doctree.Failed(name, KindSourceUnavailable, "open source: "+p.truncate(err.Error()))
	}
	defer src.Close()

	return p.Process(ctx, src)
}

// ProcessFile processes the document at path.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) doctree.Result {
	return p.ProcessInput(ctx, Input{Path: path})
}

// Process runs classification, reflow, normalization and case number
// resolution over src. It never panics; every failure is reported in the
// returned Result.
func (p *Pipeline) Process(ctx context.Context, src source.Source) (res doctree.Result) {
	name := src.Name()
	log := p.log.With("source", name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("processing failed", "stage", StageErrored, "panic", r)
			res = doctree.Failed(name, KindInternal, "process source: "+p.truncate(fmt.Sprint(r)))
		}
	}()

	total := src.NumPages()
	if total <= 0 {
		log.Warn("document has no pages", "stage", StageErrored)
		return doctree.Failed(name, KindSourceUnavailable, "source unavailable: document has no pages")
	}
	log.Debug("source opened", "stage", StageOpened, "pages", total)

	var raw []string
	var kept []string
	skipped := 0
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			log.Warn("processing cancelled", "stage", StageErrored, "page", n, "error", err)
			return doctree.Failed(name, KindCancelled, "cancelled: "+p.truncate(err.Error()))
		}

		text, err := readPage(src, n)
		if err != nil {
			log.Warn("page skipped", "page", n, "error", p.truncate(err.Error()))
			skipped++
			continue
		}
		raw = append(raw, text)

		for _, line := range splitLines(text) {
			switch p.classifier.Classify(line) {
			case cleanup.KindHeader, cleanup.KindFooter:
				continue
			case cleanup.KindBlank:
				kept = append(kept, "")
			default:
				kept = append(kept, line)
			}
		}
	}
	log.Debug("pages read", "stage", StagePagesRead, "pages", total, "skipped", skipped)
	log.Debug("lines classified", "stage", StageLinesClassified, "kept", len(kept))

	paragraphs := cleanup.Normalize(p.patterns, cleanup.Reflow(p.patterns, kept))
	cleaned := strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	log.Debug("paragraphs built", "stage", StageParagraphsBuilt, "paragraphs", len(paragraphs))

	// Letterheads are kept here: some decisions carry the case number only
	// in the page header.
	full := strings.Join(raw, "\n")
	number, _ := casenum.Resolve(full, name)
	if number != "" && !casenum.Valid(number) {
		log.Warn("discarding malformed case number", "case_number", number)
		number = ""
	}
	judge, _ := casenum.JudgeTerm(full)
	log.Debug("case number resolved", "stage", StageNumberResolved, "case_number", number)

	res = doctree.Result{
		Source:       name,
		CaseNumber:   number,
		JudgeTerm:    judge,
		Text:         cleaned,
		Success:      true,
		Pages:        total,
		PagesSkipped: skipped,
		Sections:     outline.Split(cleaned),
	}
	log.Debug("document processed", "stage", StageDone)
	return res
}

// readPage reads one page, turning a reader panic into a PageError so only
// that page is lost.
func readPage(src source.Source, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &source.PageError{Page: n, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return src.PageText(n)
}

func (p *Pipeline) truncate(msg string) string {
	if p.MaxErrorLen <= 0 {
		return msg
	}
	r := []rune(msg)
	if len(r) <= p.MaxErrorLen {
		return msg
	}
	return string(r[:p.MaxErrorLen])
}

// lineBreaks folds every line boundary PDF extractors emit into "\n".
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\x1c", "\n",
	"\x1d", "\n",
	"\x1e", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// splitLines splits page text on any line boundary. A single trailing
// boundary does not produce an extra empty line, so a sentence wrapped
// across a page break still joins up.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = lineBreaks.Replace(text)
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
