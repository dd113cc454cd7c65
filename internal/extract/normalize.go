package extract

import (
	"strings"
	"unicode"
)

// Confusables maps characters OCR engines commonly emit in place of digits.
// Keys are matched before and after uppercasing, so 'i' and 'l' both map to '1'.
var Confusables = map[rune]rune{
	'I': '1',
	'l': '1',
	'|': '1',
	'O': '0',
	'o': '0',
	'S': '5',
	's': '5',
	'B': '8',
	'b': '8',
	'Z': '2',
	'z': '2',
}

// Normalize uppercases text, substitutes Confusables with their digits and
// turns every line break into a single space.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if d, ok := Confusables[r]; ok {
			b.WriteRune(d)
			continue
		}
		if r == '\n' || r == '\r' {
			b.WriteByte(' ')
			continue
		}
		u := unicode.ToUpper(r)
		if d, ok := Confusables[u]; ok {
			b.WriteRune(d)
			continue
		}
		b.WriteRune(u)
	}
	return b.String()
}

// Text holds the views of one input that stages match against.
// It is built once per extraction and never modified.
type Text struct {
	Raw        string
	Upper      string
	Normalized string
}

// NewText derives the uppercased and normalized views of raw.
func NewText(raw string) *Text {
	return &Text{
		Raw:        raw,
		Upper:      strings.ToUpper(raw),
		Normalized: Normalize(raw),
	}
}

// digitsOnly drops every byte that is not an ASCII digit.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// stripSeparators drops whitespace, hyphens and dots and uppercases the rest.
func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// spaceOutNonDigits replaces everything except ASCII digits and spaces with a space.
func spaceOutNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}
