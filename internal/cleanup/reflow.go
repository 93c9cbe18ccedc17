package cleanup

import (
	"strings"
	"unicode"

	"github.com/dgallion1/juristext/internal/patterns"
)

type reflowState int

const (
	stateEmpty reflowState = iota
	stateAccumulating
)

// Reflower rebuilds paragraphs from line-wrapped body text. A buffered
// paragraph ends on a blank line, on a hard break (numbered section heading
// or all-caps line), or when the buffer already ends in terminal
// punctuation and another line arrives.
type Reflower struct {
	patterns *patterns.Set

	state  reflowState
	buf    strings.Builder
	output []string
}

// NewReflower returns a Reflower using set for section detection. A nil set
// uses the defaults.
func NewReflower(set *patterns.Set) *Reflower {
	if set == nil {
		set = patterns.Default()
	}
	return &Reflower{patterns: set}
}

// Feed consumes one body or blank line.
func (r *Reflower) Feed(line string) {
	line = strings.TrimSpace(line)

	if line == "" {
		r.flush()
		return
	}

	if r.IsHardBreak(line) {
		r.flush()
		r.output = append(r.output, line)
		return
	}

	switch r.state {
	case stateEmpty:
		r.buf.WriteString(line)
		r.state = stateAccumulating
	case stateAccumulating:
		if endsSentence(r.buf.String()) {
			r.flush()
			r.buf.WriteString(line)
			r.state = stateAccumulating
			return
		}
		r.buf.WriteByte(' ')
		r.buf.WriteString(line)
	}
}

// Flush emits any buffered paragraph and returns all paragraphs produced so
// far. The Reflower is reset afterwards.
func (r *Reflower) Flush() []string {
	r.flush()
	out := r.output
	r.output = nil
	return out
}

// IsHardBreak reports whether a trimmed line must stand as its own paragraph.
func (r *Reflower) IsHardBreak(line string) bool {
	if _, ok := r.patterns.MatchSection(line); ok {
		return true
	}
	return isAllUpper(line)
}

func (r *Reflower) flush() {
	if r.state == stateAccumulating {
		if p := strings.TrimSpace(r.buf.String()); p != "" {
			r.output = append(r.output, p)
		}
	}
	r.buf.Reset()
	r.state = stateEmpty
}

// Reflow runs lines through a fresh Reflower.
func Reflow(set *patterns.Set, lines []string) []string {
	r := NewReflower(set)
	for _, l := range lines {
		r.Feed(l)
	}
	return r.Flush()
}

func endsSentence(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ';', ':':
		return true
	}
	return false
}

// isAllUpper requires at least one cased letter and no lower-case or
// title-case letters. Ordinal indicators (º, ª) are Other_Lowercase and
// count as lower-case, so "PROCESSO Nº 123" is not all upper.
func isAllUpper(s string) bool {
	cased := false
	for _, c := range s {
		switch {
		case unicode.IsLower(c), unicode.IsTitle(c), unicode.Is(unicode.Other_Lowercase, c):
			return false
		case unicode.IsUpper(c), unicode.Is(unicode.Other_Uppercase, c):
			cased = true
		}
	}
	return cased
}
