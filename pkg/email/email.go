// Package email normalizes addresses and derives display names for users
// known only by email.
package email

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize trims and lowercases addr. Directory lookups and seeded IDs use
// the normalized form.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// DisplayName builds "First Last" from the local part of addr, splitting on
// dots, underscores, dashes and plus signs. Middle segments are ignored.
// An address with no usable local part yields "User".
func DisplayName(addr string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(addr), "@")
	segments := strings.FieldsFunc(local, func(r rune) bool {
		switch r {
		case '.', '_', '-', '+':
			return true
		}
		return false
	})
	switch len(segments) {
	case 0:
		return "User"
	case 1:
		return titleCase(segments[0])
	default:
		return titleCase(segments[0]) + " " + titleCase(segments[len(segments)-1])
	}
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
