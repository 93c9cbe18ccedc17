package casenum

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var judgePattern = regexp.MustCompile(`(?i)\bJu[ií]za?\b`)

// JudgeTerm returns "juiz" or "juiza" for the first judge title found in
// text, lower-cased with accents removed.
func JudgeTerm(text string) (string, bool) {
	m := judgePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return foldAccents(strings.ToLower(m)), true
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
