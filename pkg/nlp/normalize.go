package nlp

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Collapse trims s and squeezes every run of whitespace into one space.
func Collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// Key is the comparison key for list entries: entries that differ only by
// case or whitespace share a key.
func Key(s string) string {
	return strings.ToLower(Collapse(s))
}

// SplitList splits free text on any of seps, trims every part and drops empties.
func SplitList(s string, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LastToken returns the last whitespace-delimited token of s, or "".
func LastToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}
