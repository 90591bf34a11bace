package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Weekdays in display order.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var dayAliases = map[string]string{
	"lunes": "Lunes", "lun": "Lunes", "monday": "Lunes", "mon": "Lunes",
	"martes": "Martes", "mar": "Martes", "tuesday": "Martes", "tue": "Martes",
	"miercoles": "Miércoles", "mie": "Miércoles", "wednesday": "Miércoles", "wed": "Miércoles",
	"jueves": "Jueves", "jue": "Jueves", "thursday": "Jueves", "thu": "Jueves",
	"viernes": "Viernes", "vie": "Viernes", "friday": "Viernes", "fri": "Viernes",
	"sabado": "Sábado", "sab": "Sábado", "saturday": "Sábado", "sat": "Sábado",
	"domingo": "Domingo", "dom": "Domingo", "sunday": "Domingo", "sun": "Domingo",
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.h](\d{2}))?\s*(?:hs?)?$`)

// NormalizeDay canonicalises a weekday to its Spanish display name. Empty input yields "".
func NormalizeDay(raw string) (string, error) {
	key := Fold(raw)
	if key == "" {
		return "", nil
	}
	day, ok := dayAliases[strings.TrimSuffix(key, ".")]
	if !ok {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// NormalizeClock formats a time of day as zero-padded HH:MM so "8:00" and "08:00" compare equal.
func NormalizeClock(raw string) (string, error) {
	v := Fold(raw)
	if v == "" {
		return "", nil
	}
	m := clockPattern.FindStringSubmatch(v)
	if m == nil {
		return "", fmt.Errorf("invalid time %q", raw)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("invalid time %q", raw)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// DayIndex orders weekdays for sorting; unknown days sort last.
func DayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return len(Weekdays)
}
