package cleanup

import (
	"reflect"
	"testing"
)

func TestReflow_MergesWrappedSentence(t *testing.T) {
	got := Reflow(nil, []string{"The court finds", "that the claim is valid."})
	want := []string{"The court finds that the claim is valid."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_OneParagraphPerTerminatedLine(t *testing.T) {
	lines := []string{
		"Primeira frase.",
		"Segunda frase!",
		"Terceira frase?",
		"Quarta frase;",
		"Quinta frase:",
	}
	got := Reflow(nil, lines)
	if !reflect.DeepEqual(got, lines) {
		t.Errorf("expected %q, got %q", lines, got)
	}
}

func TestReflow_BlankLinesSeparateAndCollapse(t *testing.T) {
	got := Reflow(nil, []string{"", "", "Linha um sem ponto", "", "", "", "Linha dois sem ponto", ""})
	want := []string{"Linha um sem ponto", "Linha dois sem ponto"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_HardBreakOnSectionHeading(t *testing.T) {
	lines := []string{
		"texto que não termina",
		"2. Fundamentação",
		"continua o texto",
		"até aqui.",
	}
	got := Reflow(nil, lines)
	want := []string{
		"texto que não termina",
		"2. Fundamentação",
		"continua o texto até aqui.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_HardBreakOnAllCaps(t *testing.T) {
	lines := []string{
		"parágrafo em andamento",
		"SENTENÇA",
		"seguinte linha",
	}
	got := Reflow(nil, lines)
	want := []string{"parágrafo em andamento", "SENTENÇA", "seguinte linha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_OrdinalIndicatorIsNotAllCaps(t *testing.T) {
	got := Reflow(nil, []string{"O autor alega", "NOS AUTOS DO PROCESSO Nº 123", "que houve dano."})
	want := []string{"O autor alega NOS AUTOS DO PROCESSO Nº 123 que houve dano."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_ConsecutiveHardBreaks(t *testing.T) {
	got := Reflow(nil, []string{"1. RELATÓRIO", "VISTOS ETC.", "3. DISPOSITIVO"})
	want := []string{"1. RELATÓRIO", "VISTOS ETC.", "3. DISPOSITIVO"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_TrimsLines(t *testing.T) {
	got := Reflow(nil, []string{"   recuado  ", "\tcontinua.  "})
	want := []string{"recuado continua."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReflow_EmptyInput(t *testing.T) {
	if got := Reflow(nil, nil); len(got) != 0 {
		t.Errorf("expected no paragraphs, got %q", got)
	}
}

func TestReflower_StateMachine(t *testing.T) {
	r := NewReflower(nil)
	if r.state != stateEmpty {
		t.Fatalf("expected empty state initially")
	}
	r.Feed("primeira parte")
	if r.state != stateAccumulating {
		t.Fatalf("expected accumulating state after body line")
	}
	r.Feed("")
	if r.state != stateEmpty {
		t.Fatalf("expected empty state after blank line")
	}
	r.Feed("VISTOS")
	if r.state != stateEmpty {
		t.Fatalf("expected hard break to leave state empty")
	}
	got := r.Flush()
	want := []string{"primeira parte", "VISTOS"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if again := r.Flush(); len(again) != 0 {
		t.Errorf("expected Flush to reset output, got %q", again)
	}
}

func TestIsHardBreak(t *testing.T) {
	r := NewReflower(nil)
	tests := []struct {
		line string
		want bool
	}{
		{"1. RELATÓRIO", true},
		{"1. Relatorio", true},
		{"2.FUNDAMENTACAO", true},
		{"3. dispositivo", true},
		{"ISTO POSTO,", true},
		{"1ª VARA CÍVEL", false},
		{"ART. 5º DA CF", false},
		{"Art. 487, I, do CPC", false},
		{"123.", false},
		{"Relatório", false},
	}
	for _, tt := range tests {
		if got := r.IsHardBreak(tt.line); got != tt.want {
			t.Errorf("IsHardBreak(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
