package nlp

import (
	"regexp"
	"strings"
)

var (
	reInline   = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines = regexp.MustCompile(`\n\s*\n+`)
	reTags     = regexp.MustCompile(`<[^>]+>`)
)

// NormalizeWhitespace collapses excessive whitespace in extracted document
// text while keeping single line breaks.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reInline.ReplaceAllString(s, " ")
	s = reNewlines.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// StripXML drops tags from a WordprocessingML body, turning paragraph ends
// into newlines and tabs into tab characters.
func StripXML(xml string) string {
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	return reTags.ReplaceAllString(xml, "")
}

// Truncate cuts s to at most max bytes on a rune boundary and reports whether it did.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
