package util

import (
	"strings"
	"unicode"
)

// CleanText removes control and invisible characters from user supplied
// display text such as post titles and author names and trims the result.
// Everything else, including text that looks like markup, is kept as given.
func CleanText(s string) string {
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) || isInvisibleUnicode(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// isInvisibleUnicode reports zero-width and other format characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
