// Package strings holds small helpers for normalising configuration lists.
package strings

import (
	"strings"
)

// Normalizer maps a raw list entry to its canonical form. An empty result
// drops the entry.
type Normalizer func(string) string

// TrimSpace is the default Normalizer.
func TrimSpace(s string) string { return strings.TrimSpace(s) }

// TrimLower trims and lower-cases, suitable for email addresses.
func TrimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Unique normalises each value and keeps the first occurrence of every
// non-empty result, preserving order. A nil normalize uses TrimSpace.
func Unique(values []string, normalize Normalizer) []string {
	if normalize == nil {
		normalize = TrimSpace
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
