// Package classify holds the pure text heuristics used to turn loosely structured spreadsheet cells
// into normalized entity attributes.
package classify

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips diacritics and collapses inner whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// SameName reports whether two display names are equal ignoring case, accents and spacing.
func SameName(a, b string) bool {
	a = strings.Join(strings.Fields(a), " ")
	b = strings.Join(strings.Fields(b), " ")
	if a == "" || b == "" {
		return false
	}
	return fuzzy.RankMatchNormalizedFold(a, b) == 0
}

// IsNumeric reports whether s is made only of digits, dots, commas and spaces.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != ' ' {
			return false
		}
	}
	return true
}
