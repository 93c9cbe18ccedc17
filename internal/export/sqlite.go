package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dgallion1/juristext/internal/doctree"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS decisions (
		arquivo          TEXT PRIMARY KEY,
		numero_processo  TEXT,
		termo_juiz       TEXT,
		decisao_completa TEXT NOT NULL,
		pages            INTEGER NOT NULL DEFAULT 0,
		extracted_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_decisions_numero ON decisions(numero_processo)`,
}

// ErrNotFound is returned when no stored decision matches.
var ErrNotFound = errors.New("decision not found")

// SQLiteSink upserts results into a decisions table keyed by source name.
type SQLiteSink struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &SQLiteSink{db: db, path: path, now: time.Now}, nil
}

func (s *SQLiteSink) Target() string { return s.path }

// Close closes the database connection.
func (s *SQLiteSink) Close() error { return s.db.Close() }

// Write stores results in one transaction. A row for the same source is
// replaced.
func (s *SQLiteSink) Write(ctx context.Context, results []doctree.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions (arquivo, numero_processo, termo_juiz, decisao_completa, pages, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(arquivo) DO UPDATE SET
			numero_processo  = excluded.numero_processo,
			termo_juiz       = excluded.termo_juiz,
			decisao_completa = excluded.decisao_completa,
			pages            = excluded.pages,
			extracted_at     = excluded.extracted_at
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	at := s.now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, r.Source, nullable(r.CaseNumber), nullable(r.JudgeTerm), r.Text, r.Pages, at); err != nil {
			return fmt.Errorf("storing %s: %w", r.Source, err)
		}
	}
	return tx.Commit()
}

// Get returns the stored decision for a source name.
func (s *SQLiteSink) Get(ctx context.Context, source string) (doctree.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT arquivo, numero_processo, termo_juiz, decisao_completa, pages
		FROM decisions WHERE arquivo = ?
	`, source)
	return scanResult(row)
}

// ByCaseNumber returns all decisions stored under a case number, ordered by
// source name.
func (s *SQLiteSink) ByCaseNumber(ctx context.Context, number string) ([]doctree.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT arquivo, numero_processo, termo_juiz, decisao_completa, pages
		FROM decisions WHERE numero_processo = ? ORDER BY arquivo
	`, number)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []doctree.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (doctree.Result, error) {
	var r doctree.Result
	var number, judge sql.NullString
	err := sc.Scan(&r.Source, &number, &judge, &r.Text, &r.Pages)
	if errors.Is(err, sql.ErrNoRows) {
		return doctree.Result{}, ErrNotFound
	}
	if err != nil {
		return doctree.Result{}, fmt.Errorf("scanning decision: %w", err)
	}
	r.CaseNumber = number.String
	r.JudgeTerm = judge.String
	r.Success = true
	return r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
