package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and strips diacritics so that comparisons are
// accent-insensitive ("Gestão" and "gestao" normalize to the same value).
// Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// transform.Chain keeps internal state, build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	return strings.TrimSpace(strings.ToLower(stripped))
}

// ContainsFold reports whether needle occurs in haystack after both are
// normalized. An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}

// EqualFold reports whether a and b are equal after normalization.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
