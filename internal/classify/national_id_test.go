package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNationalID(t *testing.T) {
	cases := []struct {
		input string
		want  string
		valid bool
	}{
		{"30.123.456-7 ", "301234567", true},
		{"301234567", "301234567", true},
		{"30123456.0", "30123456", true},
		{"30 123 456", "30123456", true},
		{"123.456", "123456", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeNationalID(tc.input)
		assert.Equal(t, tc.want, got, tc.input)
		assert.Equal(t, tc.valid, ok, tc.input)
	}
}

func TestNormalizeNationalIDIdempotent(t *testing.T) {
	once, _ := NormalizeNationalID("30.123.456-7")
	twice, _ := NormalizeNationalID(once)
	assert.Equal(t, once, twice)
}
