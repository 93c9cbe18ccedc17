package patterns

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule is a single named pattern. Patterns are matched case-insensitively;
// anchoring is part of the pattern text.
type Rule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	// Label is the canonical heading for section rules. Unused for
	// header and footer rules.
	Label string `yaml:"label,omitempty"`
}

// File is the on-disk YAML shape of a pattern set. Groups left empty fall
// back to the defaults.
type File struct {
	Header  []Rule `yaml:"header"`
	Footer  []Rule `yaml:"footer"`
	Section []Rule `yaml:"section"`
}

// Set is a compiled, immutable group of header, footer and section rules.
type Set struct {
	header  []compiled
	footer  []compiled
	section []compiled
}

type compiled struct {
	Rule
	re *regexp.Regexp
}

// Default header rules for TJCE letterheads. The postal-code rule is the
// only one allowed to match anywhere on the line.
var DefaultHeader = []Rule{
	{Name: "poder_judiciario", Pattern: `^PODER JUDICI[ÁA]RIO`},
	{Name: "comarca", Pattern: `^Comarca de`},
	{Name: "vara", Pattern: `^Vara `},
	{Name: "forum", Pattern: `^F[oó]rum`},
	{Name: "cep", Pattern: `CEP:\s*\d{5}-\d{3}`},
	{Name: "telefone", Pattern: `^\s*Tel`},
	{Name: "email", Pattern: `^\s*Email`},
}

// DefaultFooter rules cover certification, signature and page markers.
var DefaultFooter = []Rule{
	{Name: "copia_original", Pattern: `^Este documento é cópia do original`},
	{Name: "conferir_original", Pattern: `^Para conferir o original`},
	{Name: "assinatura", Pattern: `^Documento eletrônico assinado por`},
	{Name: "folhas", Pattern: `^fls\.\s*\d+`},
}

// wordEnd stands in for \b after a section keyword. RE2's \b only knows
// ASCII word characters, so "RELATÓRIOé" would otherwise still match.
const wordEnd = `(?:$|[^\pL\pN_])`

// DefaultSection rules recognise the numbered decision sections. The first
// capture group ends the token replaced by ReplaceSection.
var DefaultSection = []Rule{
	{Name: "relatorio", Label: "RELATORIO", Pattern: `^(\d+\.\s*RELAT[ÓO]RIO)` + wordEnd},
	{Name: "fundamentacao", Label: "FUNDAMENTACAO", Pattern: `^(\d+\.\s*FUNDAMENTA[ÇC][ÃA]O)` + wordEnd},
	{Name: "dispositivo", Label: "DISPOSITIVO", Pattern: `^(\d+\.\s*DISPOSITIVO)` + wordEnd},
}

// Default returns the TJCE pattern set.
func Default() *Set {
	s, err := Compile(File{})
	if err != nil {
		panic(fmt.Sprintf("default patterns: %v", err))
	}
	return s
}

// Compile builds a Set from f, filling empty groups with the defaults.
func Compile(f File) (*Set, error) {
	if len(f.Header) == 0 {
		f.Header = DefaultHeader
	}
	if len(f.Footer) == 0 {
		f.Footer = DefaultFooter
	}
	if len(f.Section) == 0 {
		f.Section = DefaultSection
	}

	var s Set
	var err error
	if s.header, err = compileGroup("header", f.Header); err != nil {
		return nil, err
	}
	if s.footer, err = compileGroup("footer", f.Footer); err != nil {
		return nil, err
	}
	if s.section, err = compileGroup("section", f.Section); err != nil {
		return nil, err
	}
	for _, r := range s.section {
		if r.Label == "" {
			return nil, fmt.Errorf("section rule %q: label is required", r.Name)
		}
	}
	return &s, nil
}

// Parse decodes a YAML pattern file and compiles it.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return Compile(f)
}

// Load reads a YAML pattern file from path. An empty path yields the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	return Parse(data)
}

func compileGroup(group string, rules []Rule) ([]compiled, error) {
	out := make([]compiled, 0, len(rules))
	for i, r := range rules {
		if r.Pattern == "" {
			return nil, fmt.Errorf("%s rule %d (%s): empty pattern", group, i, r.Name)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s rule %d (%s): %w", group, i, r.Name, err)
		}
		out = append(out, compiled{Rule: r, re: re})
	}
	return out, nil
}

// MatchHeader reports the first header rule matching line.
func (s *Set) MatchHeader(line string) (Rule, bool) {
	return match(s.header, line)
}

// MatchFooter reports the first footer rule matching line.
func (s *Set) MatchFooter(line string) (Rule, bool) {
	return match(s.footer, line)
}

// MatchSection reports the first section rule matching line.
func (s *Set) MatchSection(line string) (Rule, bool) {
	return match(s.section, line)
}

// ReplaceSection rewrites the leading section token of p into a level-3
// Markdown heading. The token is the rule's first capture group, or the
// whole match when the pattern has none. Only the first matching rule is
// applied.
func (s *Set) ReplaceSection(p string) (string, bool) {
	for _, c := range s.section {
		loc := c.re.FindStringSubmatchIndex(p)
		if loc == nil {
			continue
		}
		end := loc[1]
		if len(loc) >= 4 && loc[3] >= 0 {
			end = loc[3]
		}
		return "### " + c.Label + p[end:], true
	}
	return p, false
}

// Rules returns copies of the configured rules, in order.
func (s *Set) Rules() File {
	return File{
		Header:  rulesOf(s.header),
		Footer:  rulesOf(s.footer),
		Section: rulesOf(s.section),
	}
}

func match(group []compiled, line string) (Rule, bool) {
	for _, c := range group {
		if c.re.MatchString(line) {
			return c.Rule, true
		}
	}
	return Rule{}, false
}

func rulesOf(group []compiled) []Rule {
	out := make([]Rule, len(group))
	for i, c := range group {
		out[i] = c.Rule
	}
	return out
}
