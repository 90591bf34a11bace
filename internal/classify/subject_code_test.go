package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRow(t *testing.T) {
	cases := []struct {
		name     string
		cells    []string
		wantCode string
		wantName string
		ok       bool
	}{
		{"adjacent cells", []string{"c.101", "Matemática I"}, "c.101", "Matemática I", true},
		{"combined cell upper case", []string{"C.12 Historia Social"}, "c.12", "Historia Social", true},
		{"combined cell after blank", []string{"", "c.7 Ética"}, "c.7", "Ética", true},
		{"code without name", []string{"c.7"}, "c.7", "", true},
		{"dash separator", []string{"c.12-Matemática"}, "c.12", "Matemática", true},
		{"spaced dash and colon", []string{"C.12 - Matemática", "c.13: Física"}, "c.12", "Matemática", true},
		{"next cell is another code", []string{"c.5", "c.6"}, "c.5", "", true},
		{"implicit integer", []string{"12", "Derecho"}, "c.12", "Derecho", true},
		{"float artifact", []string{"12.0", "Derecho"}, "c.12", "Derecho", true},
		{"text only", []string{"hola", "c"}, "", "", false},
		{"empty row", []string{"", ""}, "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, name, ok := SubjectRow(tc.cells)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantName, name)
		})
	}
}

func TestFindSubjectCode(t *testing.T) {
	code, ok := FindSubjectCode("Inscriptos C.204 - Contabilidad")
	assert.True(t, ok)
	assert.Equal(t, "c.204", code)

	_, ok = FindSubjectCode("Contabilidad")
	assert.False(t, ok)
}

func TestNormalizeSubjectCode(t *testing.T) {
	code, ok := NormalizeSubjectCode("C.9")
	assert.True(t, ok)
	assert.Equal(t, "c.9", code)

	code, ok = NormalizeSubjectCode("9")
	assert.True(t, ok)
	assert.Equal(t, "c.9", code)

	_, ok = NormalizeSubjectCode("nueve")
	assert.False(t, ok)
}

func TestDefaultSubjectName(t *testing.T) {
	assert.Equal(t, "Cátedra c.3", DefaultSubjectName("c.3"))
}
