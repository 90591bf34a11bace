package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapHeaders(t *testing.T) {
	t.Run("synonyms", func(t *testing.T) {
		m := MapHeaders([]string{"DNI", "Nombre", "Apellido", "Correo electrónico", "Sede"})
		assert.Equal(t, ColumnMap{
			ColumnNationalID: 0,
			ColumnFirstName:  1,
			ColumnLastName:   2,
			ColumnEmail:      3,
			ColumnCampus:     4,
		}, m)
	})

	t.Run("first name excludes apellido", func(t *testing.T) {
		m := MapHeaders([]string{"Nro Doc", "Apellido paterno", "Nombres", "E-mail"})
		idx, ok := m.Index(ColumnFirstName)
		assert.True(t, ok)
		assert.Equal(t, 2, idx)
		idx, _ = m.Index(ColumnLastName)
		assert.Equal(t, 1, idx)
		idx, _ = m.Index(ColumnEmail)
		assert.Equal(t, 3, idx)
	})

	t.Run("combined name column", func(t *testing.T) {
		m := MapHeaders([]string{"Apellido y Nombre", "Documento", "Carrera"})
		idx, ok := m.Index(ColumnFullName)
		assert.True(t, ok)
		assert.Equal(t, 0, idx)
		_, ok = m.Index(ColumnLastName)
		assert.False(t, ok)
		idx, _ = m.Index(ColumnCourse)
		assert.Equal(t, 2, idx)
	})

	t.Run("first matching column wins", func(t *testing.T) {
		m := MapHeaders([]string{"Email", "Mail alternativo"})
		idx, _ := m.Index(ColumnEmail)
		assert.Equal(t, 0, idx)
	})

	t.Run("positional fallback", func(t *testing.T) {
		assert.Equal(t, PositionalColumns(), MapHeaders([]string{"col1", "col2", ""}))
	})
}

func TestColumnMapCell(t *testing.T) {
	m := ColumnMap{ColumnEmail: 3, ColumnNationalID: 0}
	cells := []string{" 301234567 ", "Ana"}
	assert.Equal(t, "301234567", m.Cell(cells, ColumnNationalID))
	assert.Equal(t, "", m.Cell(cells, ColumnEmail))
	assert.Equal(t, "", m.Cell(cells, ColumnLastName))
}

func TestRecognizeHeadersEmpty(t *testing.T) {
	assert.Empty(t, RecognizeHeaders([]string{"30123456", "Ana", "Pérez"}))
}
