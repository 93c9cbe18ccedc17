package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/juristext/internal/doctree"
)

func openTestDB(t *testing.T) *SQLiteSink {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "decisoes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSQLiteSink_WriteAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	results := sampleResults()
	results[0].JudgeTerm = "juiza"
	results[0].Pages = 3
	require.NoError(t, s.Write(ctx, results))

	got, err := s.Get(ctx, "00004983720188060127.pdf")
	require.NoError(t, err)
	assert.Equal(t, "0000498-37.2018.8.06.0127", got.CaseNumber)
	assert.Equal(t, "juiza", got.JudgeTerm)
	assert.Equal(t, 3, got.Pages)
	assert.Equal(t, results[0].Text, got.Text)
	assert.True(t, got.Success)

	noNumber, err := s.Get(ctx, "sem-numero.pdf")
	require.NoError(t, err)
	assert.False(t, noNumber.HasCaseNumber())
}

func TestSQLiteSink_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	require.NoError(t, s.Write(ctx, sampleResults()))
	updated := doctree.Result{Source: "sem-numero.pdf", Text: "Texto revisado.", Success: true}
	require.NoError(t, s.Write(ctx, []doctree.Result{updated}))

	got, err := s.Get(ctx, "sem-numero.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Texto revisado.", got.Text)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteSink_ByCaseNumber(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	results := append(sampleResults(), doctree.Result{
		Source:     "embargos.pdf",
		CaseNumber: "0000498-37.2018.8.06.0127",
		Text:       "Embargos rejeitados.",
		Success:    true,
	})
	require.NoError(t, s.Write(ctx, results))

	got, err := s.ByCaseNumber(ctx, "0000498-37.2018.8.06.0127")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "00004983720188060127.pdf", got[0].Source)
	assert.Equal(t, "embargos.pdf", got[1].Source)
}

func TestSQLiteSink_NotFound(t *testing.T) {
	s := openTestDB(t)
	_, err := s.Get(context.Background(), "nada.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}
