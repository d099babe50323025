package extract

import (
	"strings"
	"unicode/utf8"
)

const (
	snippetBefore = 200
	snippetAfter  = 500
)

// locateSnippet returns the audit context around the first keyword hit: up to
// 200 bytes before and 500 after, clipped to the text bounds and snapped to
// rune boundaries. The search runs case-insensitively over the original text
// so the byte offset is valid there and the snippet keeps its casing.
func (e *Engine) locateSnippet(text string, keywords []string) string {
	for _, kw := range keywords {
		idx := foldIndex(text, kw)
		if idx < 0 {
			continue
		}
		start := idx - snippetBefore
		if start < 0 {
			start = 0
		}
		for start < len(text) && !utf8.RuneStart(text[start]) {
			start++
		}
		end := idx + snippetAfter
		if end > len(text) {
			end = len(text)
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		return strings.TrimSpace(text[start:end])
	}
	return ""
}

// foldIndex is a case-insensitive strings.Index over equal-width windows.
// The keyword lists are plain ASCII, so a hit always spans exactly
// len(substr) bytes of text.
func foldIndex(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
