// Package fecha resuelve días calendario de negocio en hora local.
//
// Los límites de un día se calculan en la zona horaria indicada (no en UTC):
// [00:00:00.000, 23:59:59.999].
package fecha

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Parse interpreta "YYYY-MM-DD" (o un timestamp ISO, del que solo se toma la parte de fecha)
// y devuelve la medianoche de ese día en loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	d, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return d, nil
}

// StartOfDay devuelve la medianoche del día de t en loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayRange devuelve el primer y el último milisegundo del día de t en loc.
func DayRange(t time.Time, loc *time.Location) (start, end time.Time) {
	start = StartOfDay(t, loc)
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// EndOfDay devuelve 23:59:59.999 del día de t en loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	_, end := DayRange(t, loc)
	return end
}

// DateIn devuelve la medianoche en loc del día calendario de t, leído en la zona de t.
// Las columnas DATE llegan como medianoche UTC; convertirlas con StartOfDay corre el día
// en zonas con offset negativo.
func DateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Format devuelve el día en formato YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(layout)
}
