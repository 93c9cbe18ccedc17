package cleanup

import (
	"strings"

	"github.com/dgallion1/juristext/internal/patterns"
)

// LineKind is the classification of a single extracted line.
type LineKind int

const (
	KindBody LineKind = iota
	KindHeader
	KindFooter
	KindBlank
)

func (k LineKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindFooter:
		return "footer"
	case KindBlank:
		return "blank"
	default:
		return "body"
	}
}

// Classifier tags lines as letterhead, footer, blank or body text.
type Classifier struct {
	patterns *patterns.Set
}

// NewClassifier returns a Classifier over set. A nil set uses the defaults.
func NewClassifier(set *patterns.Set) *Classifier {
	if set == nil {
		set = patterns.Default()
	}
	return &Classifier{patterns: set}
}

// Classify checks header rules first, then footer rules. Blank lines never
// match a rule.
func (c *Classifier) Classify(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return KindBlank
	}
	if _, ok := c.patterns.MatchHeader(trimmed); ok {
		return KindHeader
	}
	if _, ok := c.patterns.MatchFooter(trimmed); ok {
		return KindFooter
	}
	return KindBody
}

// IsBoilerplate reports whether line is a header or footer line.
func (c *Classifier) IsBoilerplate(line string) bool {
	k := c.Classify(line)
	return k == KindHeader || k == KindFooter
}
