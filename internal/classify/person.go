package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var combinedNameHeaders = []string{
	"apellido y nombre",
	"apellidos y nombres",
	"apellido, nombre",
	"apellido/nombre",
	"nombre completo",
}

var reversedNameHeaders = []string{
	"nombre y apellido",
	"nombres y apellidos",
	"nombre, apellido",
	"nombre/apellido",
}

// IsCombinedNameHeader reports whether a header announces a "LAST, FIRST" combined column.
func IsCombinedNameHeader(header string) bool {
	h := Fold(header)
	for _, marker := range combinedNameHeaders {
		if strings.Contains(h, marker) {
			return true
		}
	}
	return false
}

// IsReversedNameHeader reports whether a header announces a "FIRST LAST" combined column.
func IsReversedNameHeader(header string) bool {
	return containsAny(Fold(header), reversedNameHeaders)
}

// TitleCase capitalises every word using Spanish casing rules.
func TitleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.Spanish).String(strings.ToLower(s))
}

// SplitFullName splits a "LAST, FIRST" cell on the first comma. Without a comma the whole text is
// treated as the last name.
func SplitFullName(text string) (first, last string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	before, after, found := strings.Cut(text, ",")
	if !found {
		return "", TitleCase(text)
	}
	return TitleCase(after), TitleCase(before)
}

// SplitReversedName splits a "FIRST LAST" cell. A comma separates first from last name; without one the
// final word is the last name.
func SplitReversedName(text string) (first, last string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	if before, after, found := strings.Cut(text, ","); found {
		return TitleCase(before), TitleCase(after)
	}
	words := strings.Fields(text)
	if len(words) == 1 {
		return "", TitleCase(words[0])
	}
	return TitleCase(strings.Join(words[:len(words)-1], " ")), TitleCase(words[len(words)-1])
}
