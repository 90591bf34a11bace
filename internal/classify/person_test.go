package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	first, last := SplitFullName("GARCÍA, juan pablo")
	assert.Equal(t, "Juan Pablo", first)
	assert.Equal(t, "García", last)

	first, last = SplitFullName("de la Fuente, Ana, María")
	assert.Equal(t, "Ana, María", first)
	assert.Equal(t, "De La Fuente", last)

	first, last = SplitFullName("pérez")
	assert.Empty(t, first)
	assert.Equal(t, "Pérez", last)

	first, last = SplitFullName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}

func TestIsCombinedNameHeader(t *testing.T) {
	for _, h := range []string{"Apellido y Nombre", "APELLIDOS Y NOMBRES", "Apellido, Nombre", "apellido/nombre", "Nombre completo"} {
		assert.True(t, IsCombinedNameHeader(h), h)
	}
	assert.False(t, IsCombinedNameHeader("Apellido"))
	assert.False(t, IsCombinedNameHeader("Nombre"))
}

func TestReversedNameHeaders(t *testing.T) {
	for _, h := range []string{"Nombre y Apellido", "NOMBRES Y APELLIDOS", "Nombre, Apellido"} {
		assert.True(t, IsReversedNameHeader(h), h)
		assert.False(t, IsCombinedNameHeader(h), h)
		column, ok := ClassifyHeader(h)
		assert.True(t, ok)
		assert.Equal(t, ColumnReversedName, column)
	}
	assert.False(t, IsReversedNameHeader("Apellido y Nombre"))
}

func TestSplitReversedName(t *testing.T) {
	first, last := SplitReversedName("juan pablo GARCÍA")
	assert.Equal(t, "Juan Pablo", first)
	assert.Equal(t, "García", last)

	first, last = SplitReversedName("Ana María, de la Fuente")
	assert.Equal(t, "Ana María", first)
	assert.Equal(t, "De La Fuente", last)

	first, last = SplitReversedName("pérez")
	assert.Empty(t, first)
	assert.Equal(t, "Pérez", last)
}
