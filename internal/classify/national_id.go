package classify

import "strings"

// MinNationalIDLength is the shortest accepted normalized national ID.
const MinNationalIDLength = 7

var idSeparators = strings.NewReplacer(".", "", "-", "", " ", "", "\u00a0", "")

// NormalizeNationalID strips separators from a national ID. A trailing ".0" left by a numeric cell read
// as a float is removed before the separators.
func NormalizeNationalID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	id = strings.TrimSuffix(id, ".0")
	id = idSeparators.Replace(id)
	if len(id) < MinNationalIDLength {
		return id, false
	}
	return id, true
}
