package outline

import "testing"

func TestSplit_Sections(t *testing.T) {
	input := "SENTENÇA\n\nVistos etc.\n\n### RELATORIO\n\nTrata-se de ação.\n\nCitado, o réu contestou.\n\n### FUNDAMENTACAO\n\nDecido.\n\n### DISPOSITIVO: julgo procedente.\n\nP.R.I."

	sections := Split(input)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d: %+v", len(sections), sections)
	}

	pre := sections[0]
	if pre.Label != "" {
		t.Errorf("expected empty preamble label, got %q", pre.Label)
	}
	if pre.Text != "SENTENÇA\n\nVistos etc." {
		t.Errorf("unexpected preamble text %q", pre.Text)
	}

	rel := sections[1]
	if rel.Label != "RELATORIO" {
		t.Errorf("expected RELATORIO, got %q", rel.Label)
	}
	if rel.Text != "Trata-se de ação.\n\nCitado, o réu contestou." {
		t.Errorf("unexpected relatorio text %q", rel.Text)
	}

	disp := sections[3]
	if disp.Label != "DISPOSITIVO" {
		t.Errorf("expected DISPOSITIVO, got %q", disp.Label)
	}
	if disp.Title != "julgo procedente." {
		t.Errorf("expected title %q, got %q", "julgo procedente.", disp.Title)
	}
	if disp.Text != "P.R.I." {
		t.Errorf("unexpected dispositivo text %q", disp.Text)
	}
}

func TestSplit_NoHeadings(t *testing.T) {
	sections := Split("Apenas um parágrafo.\n\nE outro.")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Label != "" || sections[0].Text != "Apenas um parágrafo.\n\nE outro." {
		t.Errorf("unexpected section %+v", sections[0])
	}
}

func TestSplit_IgnoresOtherHeadingLevels(t *testing.T) {
	sections := Split("## Not a section\n\ntexto\n\n### DISPOSITIVO\n\nfim")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Text != "## Not a section\n\ntexto" {
		t.Errorf("expected level-2 heading kept as text, got %q", sections[0].Text)
	}
}

func TestSplit_KeepsMarkdownLookalikesVerbatim(t *testing.T) {
	sections := Split("### FUNDAMENTACAO\n\n1. primeiro item\n\n* nota de rodapé")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Text != "1. primeiro item\n\n* nota de rodapé" {
		t.Errorf("expected verbatim body, got %q", sections[0].Text)
	}
}

func TestSplit_Empty(t *testing.T) {
	if s := Split(""); len(s) != 0 {
		t.Errorf("expected no sections, got %+v", s)
	}
}

func TestFind(t *testing.T) {
	sections := Split("### RELATORIO\n\na\n\n### DISPOSITIVO\n\nb")
	s, ok := Find(sections, "dispositivo")
	if !ok || s.Text != "b" {
		t.Errorf("expected dispositivo section, got %+v (%v)", s, ok)
	}
	if _, ok := Find(sections, "EMENTA"); ok {
		t.Error("expected missing label")
	}
}
