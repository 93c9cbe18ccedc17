package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/juristext/internal/source"
)

// flakySource fails the pages listed in bad.
type flakySource struct {
	name  string
	pages []string
	bad   map[int]bool
	panic map[int]bool
}

func (s *flakySource) Name() string  { return s.name }
func (s *flakySource) NumPages() int { return len(s.pages) }
func (s *flakySource) Close() error  { return nil }

func (s *flakySource) PageText(n int) (string, error) {
	if s.panic[n] {
		panic("corrupt page stream")
	}
	if s.bad[n] {
		return "", &source.PageError{Page: n, Err: errors.New("bad xref")}
	}
	return s.pages[n-1], nil
}

func TestProcess_EndToEnd(t *testing.T) {
	page1 := strings.Join([]string{
		"PODER JUDICIÁRIO DO ESTADO DO CEARÁ",
		"Comarca de Fortaleza",
		"Fórum Clóvis Beviláqua - CEP: 60811-690",
		"Email: for.civel@tjce.jus.br",
		"fls. 1",
	}, "\n")
	page2 := strings.Join([]string{
		"1. RELATÓRIO",
		"Trata-se de ação de cobrança ajuizada por",
		"Fulano de Tal em face do Banco X.",
	}, "\n")

	p := New(nil, source.Options{}, nil)
	res := p.Process(context.Background(), source.NewPages("decisao.pdf", page1, page2))

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	want := "### RELATORIO\n\nTrata-se de ação de cobrança ajuizada por Fulano de Tal em face do Banco X."
	if res.Text != want {
		t.Errorf("expected text %q, got %q", want, res.Text)
	}
	if res.Error != "" {
		t.Errorf("expected no error, got %q", res.Error)
	}
	if res.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", res.Pages)
	}
	if len(res.Sections) != 1 || res.Sections[0].Label != "RELATORIO" {
		t.Errorf("expected one RELATORIO section, got %+v", res.Sections)
	}
}

func TestProcess_ZeroPages(t *testing.T) {
	p := New(nil, source.Options{}, nil)
	res := p.Process(context.Background(), source.NewPages("vazio.pdf"))
	if res.Success {
		t.Fatal("expected failure for zero-page source")
	}
	if res.Error == "" {
		t.Error("expected error description")
	}
	if res.Text != "" {
		t.Errorf("expected no cleaned text, got %q", res.Text)
	}
	if res.ErrorKind != KindSourceUnavailable {
		t.Errorf("expected kind %q, got %q", KindSourceUnavailable, res.ErrorKind)
	}
}

func TestProcess_SkipsFailingPage(t *testing.T) {
	src := &flakySource{
		name:  "tres.pdf",
		pages: []string{"Primeira página.", "perdida.", "Terceira página."},
		bad:   map[int]bool{2: true},
	}
	p := New(nil, source.Options{}, nil)
	res := p.Process(context.Background(), src)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Text != "Primeira página.\n\nTerceira página." {
		t.Errorf("unexpected text %q", res.Text)
	}
	if res.PagesSkipped != 1 {
		t.Errorf("expected 1 skipped page, got %d", res.PagesSkipped)
	}
}

func TestProcess_PagePanicIsContained(t *testing.T) {
	src := &flakySource{
		name:  "panico.pdf",
		pages: []string{"Primeira.", "boom", "Terceira."},
		panic: map[int]bool{2: true},
	}
	p := New(nil, source.Options{}, nil)
	res := p.Process(context.Background(), src)
	if !res.Success {
		t.Fatalf("expected success, got %s %q", res.ErrorKind, res.Error)
	}
	if res.Text != "Primeira.\n\nTerceira." {
		t.Errorf("expected surviving pages' text, got %q", res.Text)
	}
	if res.PagesSkipped != 1 {
		t.Errorf("expected 1 skipped page, got %d", res.PagesSkipped)
	}
}

func TestProcess_AllPagesFail(t *testing.T) {
	src := &flakySource{
		name:  "ilegivel.pdf",
		pages: []string{"a", "b", "c"},
		bad:   map[int]bool{1: true, 3: true},
		panic: map[int]bool{2: true},
	}
	res := New(nil, source.Options{}, nil).Process(context.Background(), src)
	if !res.Success {
		t.Fatalf("expected success with empty text, got %s %q", res.ErrorKind, res.Error)
	}
	if res.Text != "" || res.Error != "" {
		t.Errorf("expected empty text and no error, got %+v", res)
	}
	if res.Pages != 3 || res.PagesSkipped != 3 {
		t.Errorf("expected 3 of 3 pages skipped, got %d of %d", res.PagesSkipped, res.Pages)
	}
	if res.CaseNumber != "" {
		t.Errorf("expected no case number, got %q", res.CaseNumber)
	}
}

func TestProcess_CaseNumberFromBoilerplate(t *testing.T) {
	page := "PODER JUDICIÁRIO\nProcesso nº: 0201234-11.2020.8.06.0001\nJulgo procedente.\nJuíza de Direito"
	// The label line is body text here; the number still comes from the
	// unfiltered page text.
	res := New(nil, source.Options{}, nil).Process(context.Background(), source.NewPages("x.pdf", page))
	if res.CaseNumber != "0201234-11.2020.8.06.0001" {
		t.Errorf("expected case number, got %q", res.CaseNumber)
	}
	if res.JudgeTerm != "juiza" {
		t.Errorf("expected judge term juiza, got %q", res.JudgeTerm)
	}
	if strings.Contains(res.Text, "PODER JUDICIÁRIO") {
		t.Errorf("expected letterhead removed, got %q", res.Text)
	}
}

func TestProcess_CaseNumberInHeaderOnly(t *testing.T) {
	page := "Vara Única - Processo nº: 0000498-37.2018.8.06.0127\nDecisão sem número no corpo."
	res := New(nil, source.Options{}, nil).Process(context.Background(), source.NewPages("y.pdf", page))
	if res.CaseNumber != "0000498-37.2018.8.06.0127" {
		t.Errorf("expected case number from header line, got %q", res.CaseNumber)
	}
	if res.Text != "Decisão sem número no corpo." {
		t.Errorf("unexpected text %q", res.Text)
	}
}

func TestProcess_FilenameFallbackAndAbsent(t *testing.T) {
	p := New(nil, source.Options{}, nil)
	res := p.Process(context.Background(), source.NewPages("00004983720188060127.pdf", "Texto."))
	if res.CaseNumber != "0000498-37.2018.8.06.0127" {
		t.Errorf("expected filename fallback, got %q", res.CaseNumber)
	}

	res = p.Process(context.Background(), source.NewPages("decisao.pdf", "Texto."))
	if !res.Success || res.HasCaseNumber() {
		t.Errorf("expected success without case number, got %+v", res)
	}
}

func TestProcess_WrapAcrossPages(t *testing.T) {
	res := New(nil, source.Options{}, nil).Process(context.Background(),
		source.NewPages("w.pdf", "frase que continua\nfls. 1\n", "na página seguinte."))
	if res.Text != "frase que continua na página seguinte." {
		t.Errorf("expected sentence joined across pages, got %q", res.Text)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := New(nil, source.Options{}, nil).Process(ctx, source.NewPages("c.pdf", "a."))
	if res.Success || res.ErrorKind != KindCancelled {
		t.Errorf("expected cancelled failure, got %+v", res)
	}
}

func TestProcessInput_OpenFailureIsTruncated(t *testing.T) {
	p := New(nil, source.Options{}, nil)
	p.MaxErrorLen = 10
	res := p.ProcessInput(context.Background(), Input{Path: filepath.Join(t.TempDir(), "nao-existe-com-nome-longo.pdf")})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ErrorKind != KindSourceUnavailable {
		t.Errorf("expected kind %q, got %q", KindSourceUnavailable, res.ErrorKind)
	}
	if got := strings.TrimPrefix(res.Error, "open source: "); len([]rune(got)) != 10 {
		t.Errorf("expected truncated message of 10 runes, got %q", got)
	}
	if res.Source != "nao-existe-com-nome-longo.pdf" {
		t.Errorf("unexpected source %q", res.Source)
	}
}

func TestProcessFile_TextSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00004983720188060127.txt")
	content := "Comarca de Itapajé\n1. RELATÓRIO\nVistos.\f2. FUNDAMENTAÇÃO\nDecido.\nfls. 2"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	res := New(nil, source.Options{}, nil).ProcessFile(context.Background(), path)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	want := "### RELATORIO\n\nVistos.\n\n### FUNDAMENTACAO\n\nDecido."
	if res.Text != want {
		t.Errorf("expected %q, got %q", want, res.Text)
	}
	if res.CaseNumber != "0000498-37.2018.8.06.0127" {
		t.Errorf("unexpected case number %q", res.CaseNumber)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a\r\nb\rc\n\nd\n", []string{"a", "b", "c", "", "d"}},
		{"a\vb\fc\x1cd\x1de\x1ef", []string{"a", "b", "c", "d", "e", "f"}},
		{"a\u0085b\u2028c\u2029", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := splitLines(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if splitLines("") != nil {
		t.Error("expected nil for empty text")
	}
}
