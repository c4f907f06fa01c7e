package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var turkishLower = cases.Lower(language.Turkish)

// Normalize lower-cases and trims text for comparison. The fold is
// Turkish-locale aware: "İstanbul" and "istanbul" must compare equal, which
// strings.ToLower gets wrong for the dotted/dotless i pairs (İ→i, I→ı).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(turkishLower.String(s))
}

// Contains reports whether haystack contains needle after normalization.
// Both sides empty-tolerant; an empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// Equal reports whether two strings are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
