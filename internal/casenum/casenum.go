// Package casenum resolves CNJ-style case numbers (NNNNNNN-DD.AAAA.J.TT.OOOO)
// from decision text or from the digit-only filenames used by the portal
// downloads.
package casenum

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	labelPattern  = regexp.MustCompile(`(?i)Processo\s+n[º°#]:\s*(\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4})`)
	canonicalForm = regexp.MustCompile(`^\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}$`)
)

// StemLength is the length of an unformatted case number embedded in a
// filename.
const StemLength = 20

// Resolve looks for a labelled case number in text and falls back to the
// filename. The second return value is false when neither source carries one.
func Resolve(text, filename string) (string, bool) {
	if n, ok := FromText(text); ok {
		return n, true
	}
	return FromFilename(filename)
}

// FromText returns the first "Processo nº: <number>" token verbatim.
func FromText(text string) (string, bool) {
	m := labelPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FromFilename reformats a 20-digit filename stem into the canonical
// pattern. Any other stem shape yields false.
func FromFilename(filename string) (string, bool) {
	base := filepath.Base(filename)
	return format(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Canonical accepts a case number in any punctuation (or none) and returns
// its canonical form. It fails unless exactly 20 digits are present.
func Canonical(n string) (string, bool) {
	return format(Digits(n))
}

func format(stem string) (string, bool) {
	if len(stem) != StemLength {
		return "", false
	}
	for i := 0; i < len(stem); i++ {
		if stem[i] < '0' || stem[i] > '9' {
			return "", false
		}
	}
	return stem[0:7] + "-" + stem[7:9] + "." + stem[9:13] + "." + stem[13:14] + "." + stem[14:16] + "." + stem[16:20], true
}

// Valid reports whether n is in canonical form.
func Valid(n string) bool {
	return canonicalForm.MatchString(n)
}

// Digits strips the punctuation from a canonical case number, producing the
// stem used in downloaded filenames.
func Digits(n string) string {
	var b strings.Builder
	b.Grow(StemLength)
	for i := 0; i < len(n); i++ {
		if n[i] >= '0' && n[i] <= '9' {
			b.WriteByte(n[i])
		}
	}
	return b.String()
}
