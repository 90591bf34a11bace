package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	codeAnywhere = regexp.MustCompile(`(?i)c\.(\d+)`)
	codeLeading  = regexp.MustCompile(`(?i)^\s*c\.(\d+)[\s\-:]*(.*)$`)
	bareInteger  = regexp.MustCompile(`^\s*(\d+)(?:\.0+)?\s*$`)
)

// CodeFromNumber formats a subject number as a c.<N> code.
func CodeFromNumber(n int) string {
	return "c." + strconv.Itoa(n)
}

// FindSubjectCode returns the first c.<N> code contained anywhere in text, lower-cased.
func FindSubjectCode(text string) (string, bool) {
	m := codeAnywhere.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return "c." + m[1], true
}

// ParseSubjectCell parses a cell that starts with a code, optionally followed by the subject name. Spaces,
// dashes and colons between the two are dropped.
func ParseSubjectCell(text string) (code, name string, ok bool) {
	m := codeLeading.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return "c." + m[1], strings.TrimSpace(m[2]), true
}

// ImplicitSubjectCode interprets a bare integer cell, including float artifacts like "12.0", as a code.
func ImplicitSubjectCode(text string) (string, bool) {
	m := bareInteger.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return "", false
	}
	return CodeFromNumber(n), true
}

// NormalizeSubjectCode lower-cases a code and accepts bare numbers.
func NormalizeSubjectCode(text string) (string, bool) {
	if code, _, ok := ParseSubjectCell(text); ok {
		return code, true
	}
	return ImplicitSubjectCode(text)
}

// SubjectRow extracts a code and a name from the cells of one row. Layouts are tried in order: code and
// name in adjacent cells, code and name combined in one cell, and a leading integer column.
func SubjectRow(cells []string) (code, name string, ok bool) {
	for i, cell := range cells {
		c, inline, matched := ParseSubjectCell(cell)
		if !matched {
			continue
		}
		if inline == "" && i+1 < len(cells) {
			if next := strings.TrimSpace(cells[i+1]); next != "" {
				if _, _, isCode := ParseSubjectCell(next); !isCode {
					return c, next, true
				}
			}
		}
		return c, inline, true
	}

	for i, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		c, matched := ImplicitSubjectCode(cell)
		if !matched {
			return "", "", false
		}
		for _, rest := range cells[i+1:] {
			if v := strings.TrimSpace(rest); v != "" {
				return c, v, true
			}
		}
		return c, "", true
	}
	return "", "", false
}

// DefaultSubjectName is used when an import supplies a code without a name.
func DefaultSubjectName(code string) string {
	return "Cátedra " + code
}
