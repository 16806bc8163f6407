// Package textutil provides the answer-comparison normalization shared by
// the written quiz and the oral screen.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and removes combining marks, so "café"
// compares equal to "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases the text, strips diacritics, replaces every
// character that is not a letter, digit, underscore or whitespace with a
// space, and collapses runs of whitespace. The result of Normalize is a
// fixed point: normalizing it again changes nothing.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Equal reports whether two free-text answers match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
