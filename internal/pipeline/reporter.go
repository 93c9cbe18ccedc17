package pipeline

import (
	"log/slog"

	"github.com/dgallion1/juristext/internal/doctree"
)

// Reporter receives batch progress. Implementations must be safe for
// concurrent use when the runner has more than one worker.
type Reporter interface {
	Started(index, total int, name string)
	Finished(index, total int, res doctree.Result)
}

// LogReporter reports progress through a structured logger.
type LogReporter struct {
	Log *slog.Logger
}

func (r LogReporter) Started(index, total int, name string) {
	r.Log.Info("processing document", "index", index, "total", total, "source", name)
}

func (r LogReporter) Finished(index, total int, res doctree.Result) {
	if res.Success {
		r.Log.Info("document extracted",
			"index", index,
			"source", res.Source,
			"case_number", res.CaseNumber,
			"pages", res.Pages,
			"pages_skipped", res.PagesSkipped,
		)
		return
	}
	r.Log.Warn("document failed", "index", index, "source", res.Source, "kind", res.ErrorKind, "error", res.Error)
}

type nopReporter struct{}

func (nopReporter) Started(int, int, string)          {}
func (nopReporter) Finished(int, int, doctree.Result) {}
