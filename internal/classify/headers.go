package classify

import "strings"

// Column identifies what a spreadsheet column holds.
type Column string

const (
	ColumnNationalID   Column = "national_id"
	ColumnEmail        Column = "email"
	ColumnLastName     Column = "last_name"
	ColumnFirstName    Column = "first_name"
	ColumnFullName     Column = "full_name"
	ColumnReversedName Column = "reversed_name"
	ColumnCampus       Column = "campus"
	ColumnCourse       Column = "course"
)

type headerRule struct {
	column   Column
	synonyms []string
	excludes []string
}

// headerRules is evaluated in order for every header; the first rule that matches claims the column.
var headerRules = []headerRule{
	{column: ColumnNationalID, synonyms: []string{"dni", "documento", "nro doc"}},
	{column: ColumnEmail, synonyms: []string{"mail", "correo"}},
	{column: ColumnLastName, synonyms: []string{"apellido", "last name"}},
	{column: ColumnFirstName, synonyms: []string{"nombre", "first name"}, excludes: []string{"apellido"}},
	{column: ColumnCampus, synonyms: []string{"sede", "campus"}},
	{column: ColumnCourse, synonyms: []string{"carrera", "curso"}},
}

// ColumnMap maps recognized purposes to 0-based column indexes.
type ColumnMap map[Column]int

// Index returns the column index for purpose.
func (m ColumnMap) Index(purpose Column) (int, bool) {
	idx, ok := m[purpose]
	return idx, ok
}

// Cell returns the trimmed value of purpose in cells, or "" when unmapped or missing.
func (m ColumnMap) Cell(cells []string, purpose Column) string {
	idx, ok := m[purpose]
	if !ok || idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// ClassifyHeader returns the purpose a single header names.
func ClassifyHeader(header string) (Column, bool) {
	h := Fold(header)
	if h == "" {
		return "", false
	}
	if IsCombinedNameHeader(h) {
		return ColumnFullName, true
	}
	if IsReversedNameHeader(h) {
		return ColumnReversedName, true
	}
	for _, rule := range headerRules {
		if containsAny(h, rule.excludes) {
			continue
		}
		if containsAny(h, rule.synonyms) {
			return rule.column, true
		}
	}
	return "", false
}

// RecognizeHeaders maps each recognized header to its column. The first column claiming a purpose wins.
// The map is empty when no header is recognized.
func RecognizeHeaders(headers []string) ColumnMap {
	mapped := ColumnMap{}
	for i, header := range headers {
		purpose, ok := ClassifyHeader(header)
		if !ok {
			continue
		}
		if _, taken := mapped[purpose]; !taken {
			mapped[purpose] = i
		}
	}
	return mapped
}

// MapHeaders is RecognizeHeaders with the positional layout national ID, first name, last name, email
// used when no header is recognized.
func MapHeaders(headers []string) ColumnMap {
	if mapped := RecognizeHeaders(headers); len(mapped) > 0 {
		return mapped
	}
	return PositionalColumns()
}

// PositionalColumns is the fallback layout for header-less sheets.
func PositionalColumns() ColumnMap {
	return ColumnMap{
		ColumnNationalID: 0,
		ColumnFirstName:  1,
		ColumnLastName:   2,
		ColumnEmail:      3,
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
