package outline

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/dgallion1/juristext/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HeadingLevel is the Markdown level used for normalized section headings.
const HeadingLevel = 3

type heading struct {
	start, end int // byte range of the whole heading line
	content    string
}

// Split breaks cleaned decision text into sections at its level-3 headings.
// Text before the first heading becomes a section with an empty label.
// Section bodies are sliced from the source untouched, so Markdown that
// happens to appear in legal prose is not rendered or reinterpreted.
func Split(cleaned string) []doctree.Section {
	src := []byte(cleaned)
	headings := findHeadings(src)

	var sections []doctree.Section
	pos := 0
	var current *doctree.Section

	flush := func(end int) {
		body := strings.TrimSpace(string(src[pos:end]))
		if current == nil {
			if body != "" {
				sections = append(sections, doctree.Section{Text: body})
			}
			return
		}
		current.Text = body
		sections = append(sections, *current)
	}

	for _, h := range headings {
		flush(h.start)
		label, title := splitHeading(h.content)
		current = &doctree.Section{Label: label, Title: title}
		pos = h.end
	}
	flush(len(src))

	return sections
}

func findHeadings(src []byte) []heading {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != HeadingLevel {
			continue
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			continue
		}
		seg := lines.At(0)
		start := bytes.LastIndexByte(src[:seg.Start], '\n') + 1
		end := len(src)
		if i := bytes.IndexByte(src[seg.Stop:], '\n'); i >= 0 {
			end = seg.Stop + i
		}
		out = append(out, heading{
			start:   start,
			end:     end,
			content: strings.TrimSpace(string(seg.Value(src))),
		})
	}
	return out
}

// splitHeading separates the leading label word from the rest of the line.
func splitHeading(s string) (label, title string) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(strings.TrimLeft(s[i:], " :-–—"))
}

// Find returns the first section with the given label.
func Find(sections []doctree.Section, label string) (doctree.Section, bool) {
	for _, s := range sections {
		if strings.EqualFold(s.Label, label) {
			return s, true
		}
	}
	return doctree.Section{}, false
}
