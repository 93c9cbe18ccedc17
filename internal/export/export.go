// Package export persists successful extraction results: a semicolon
// separated, fully quoted CSV file and a SQLite table.
package export

import (
	"context"

	"github.com/dgallion1/juristext/internal/doctree"
)

// Sink receives the successful results of a batch, in input order.
type Sink interface {
	Write(ctx context.Context, results []doctree.Result) error
	// Target names the destination, for reporting.
	Target() string
	Close() error
}
