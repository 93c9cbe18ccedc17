package doctree

// Section is one part of a reconstructed decision, split on its
// "### LABEL" headings.
type Section struct {
	Label string `json:"label"`           // RELATORIO, FUNDAMENTACAO, DISPOSITIVO; empty for the preamble
	Title string `json:"title,omitempty"` // Heading text after the label, if any
	Text  string `json:"text"`
}

// Result is the outcome of processing one source document. Either Success
// is true and Text holds the cleaned decision, or Success is false and
// Error describes the failure.
type Result struct {
	Source       string    `json:"arquivo"`
	CaseNumber   string    `json:"numero_processo,omitempty"` // Empty when absent
	JudgeTerm    string    `json:"termo_juiz,omitempty"`
	Text         string    `json:"decisao_completa,omitempty"`
	Success      bool      `json:"sucesso"`
	Error        string    `json:"erro,omitempty"`
	ErrorKind    string    `json:"tipo_erro,omitempty"`
	Pages        int       `json:"paginas"`
	PagesSkipped int       `json:"paginas_ignoradas,omitempty"`
	Sections     []Section `json:"secoes,omitempty"`
}

// HasCaseNumber reports whether a case number was resolved.
func (r Result) HasCaseNumber() bool {
	return r.CaseNumber != ""
}

// Failed builds a failure result for source.
func Failed(source, kind, msg string) Result {
	return Result{Source: source, ErrorKind: kind, Error: msg}
}
