package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCampus(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"compound online interior wins over bare online", "Online - Interior (Córdoba)", CampusOnlineInterior, true},
		{"compound without dash", "ONLINE INTERIOR", CampusOnlineInterior, true},
		{"exterior before online", "Online exterior", CampusOnlineExterior, true},
		{"bare online", "Sede online", CampusOnlineInterior, true},
		{"accented vicente lopez", "Vicente López centro", CampusVicenteLopez, true},
		{"vicente alone", "sede vicente", CampusVicenteLopez, true},
		{"branch before interior", "Pilar del interior", CampusPilar, true},
		{"case insensitive", "AVELLANEDA", CampusAvellaneda, true},
		{"monte grande", "Lic. en Enfermería - Monte Grande", CampusMonteGrande, true},
		{"unknown", "Rosario", "", false},
		{"empty", "   ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DetectCampus(tc.input)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCampusRulesOrder(t *testing.T) {
	position := map[string]int{}
	for i, rule := range campusRules {
		position[rule.substring] = i
	}
	assert.Less(t, position["online - interior"], position["online"])
	assert.Less(t, position["online interior"], position["interior"])
	assert.Less(t, position["exterior"], position["online"])
	assert.Less(t, position["vicente lopez"], position["vicente"])
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Vicente Lopez", "vicente  lópez"))
	assert.True(t, SameName("La Plata", "LA PLATA"))
	assert.False(t, SameName("Pilar", "Pilar Norte"))
	assert.False(t, SameName("", ""))
}
