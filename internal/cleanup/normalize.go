package cleanup

import "github.com/dgallion1/juristext/internal/patterns"

// Normalize rewrites leading numbered section headings into "### LABEL"
// form. The output has the same length and order as paragraphs.
func Normalize(set *patterns.Set, paragraphs []string) []string {
	if set == nil {
		set = patterns.Default()
	}
	out := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		out[i], _ = set.ReplaceSection(p)
	}
	return out
}
