package source

import "strings"

// NewText returns a Source over plain text. Form feeds separate pages, the
// same convention pdftotext uses. Empty input has zero pages.
func NewText(name, text string) Source {
	if text == "" {
		return &pages{name: name}
	}
	return &pages{name: name, texts: strings.Split(text, "\f")}
}

// NewPages returns a Source over already separated page texts.
func NewPages(name string, texts ...string) Source {
	return &pages{name: name, texts: texts}
}
