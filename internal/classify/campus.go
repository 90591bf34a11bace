package classify

import "strings"

// Canonical campus names produced by DetectCampus.
const (
	CampusOnlineInterior = "Online - Interior"
	CampusOnlineExterior = "Online - Exterior"
	CampusAvellaneda     = "Avellaneda"
	CampusCaballito      = "Caballito"
	CampusVicenteLopez   = "Vicente López"
	CampusLiniers        = "Liniers"
	CampusMonteGrande    = "Monte Grande"
	CampusLaPlata        = "La Plata"
	CampusPilar          = "Pilar"
)

type campusRule struct {
	substring string
	campus    string
}

// campusRules is evaluated top to bottom; compound names precede the bare tokens they contain.
var campusRules = []campusRule{
	{"online - interior", CampusOnlineInterior},
	{"online interior", CampusOnlineInterior},
	{"avellaneda", CampusAvellaneda},
	{"caballito", CampusCaballito},
	{"vicente lopez", CampusVicenteLopez},
	{"vicente lópez", CampusVicenteLopez},
	{"vicente", CampusVicenteLopez},
	{"liniers", CampusLiniers},
	{"monte grande", CampusMonteGrande},
	{"la plata", CampusLaPlata},
	{"pilar", CampusPilar},
	{"exterior", CampusOnlineExterior},
	{"interior", CampusOnlineInterior},
	{"online", CampusOnlineInterior},
}

// DetectCampus returns the canonical campus named somewhere in text.
func DetectCampus(text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return "", false
	}
	for _, rule := range campusRules {
		if strings.Contains(lowered, rule.substring) {
			return rule.campus, true
		}
	}
	return "", false
}
