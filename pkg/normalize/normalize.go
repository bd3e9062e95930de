// Package normalize reduces free text to a form suitable for loose matching.
package normalize

import (
	"strings"
	"unicode"
)

// Text lowercases s, drops everything that is not an ASCII letter, ASCII
// digit or whitespace, and trims the result.
func Text(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}
