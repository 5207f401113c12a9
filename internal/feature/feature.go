// Package feature computes title-derived attributes used across collection,
// cleaning and hypothesis testing. Extraction is pure and deterministic.
package feature

import (
	"strings"
	"unicode"
)

// Features holds the textual attributes of a single track title.
type Features struct {
	Length         int
	WordCount      int
	HasDigit       bool
	HasSpecialChar bool
}

// Extract computes the feature set of a title. Length counts characters
// (runes, not bytes); words are whitespace-delimited tokens; a special
// character is anything that is neither alphanumeric nor whitespace.
func Extract(title string) Features {
	f := Features{
		Length:    len([]rune(title)),
		WordCount: len(strings.Fields(title)),
	}
	for _, r := range title {
		if unicode.IsDigit(r) {
			f.HasDigit = true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			f.HasSpecialChar = true
		}
		if f.HasDigit && f.HasSpecialChar {
			break
		}
	}
	return f
}
