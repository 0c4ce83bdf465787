package util

import (
	"strings"
	"unicode"
)

// SanitizeText drops NUL and other control runes that PDF extractors leave in
// page text, along with byte-order marks and decoder replacement runes.
// Newlines, carriage returns and tabs survive.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case r == '\uFEFF', r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
