package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Magacin-api/internal/domain"
)

// DateLayout formato de fecha de calendario aceptado en consultas.
const DateLayout = "2006-01-02"

// Period intervalo cerrado [From, To]. To ya está normalizado al último instante de su día.
type Period struct {
	From time.Time
	To   time.Time
}

// ParsePeriod interpreta from/to (YYYY-MM-DD) en loc. Fechas vacías, mal formadas o from > to
// devuelven domain.ErrInvalidInput envuelto.
func ParsePeriod(from, to string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return Period{}, fmt.Errorf("%w: los parámetros from y to son obligatorios (YYYY-MM-DD)", domain.ErrInvalidInput)
	}
	f, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: from inválido %q (YYYY-MM-DD)", domain.ErrInvalidInput, from)
	}
	t, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: to inválido %q (YYYY-MM-DD)", domain.ErrInvalidInput, to)
	}
	return NewPeriod(f, t)
}

// NewPeriod construye el periodo desde el inicio del día de from hasta el último instante del día de to.
func NewPeriod(from, to time.Time) (Period, error) {
	f := startOfDay(from)
	t := startOfDay(to).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if f.After(t) {
		return Period{}, fmt.Errorf("%w: from (%s) es posterior a to (%s)", domain.ErrInvalidInput,
			f.Format(DateLayout), to.Format(DateLayout))
	}
	return Period{From: f, To: t}, nil
}

// LastDays periodo de los últimos n días naturales terminando en el día de now (incluido).
func LastDays(now time.Time, n int) Period {
	if n < 1 {
		n = 1
	}
	p, _ := NewPeriod(now.AddDate(0, 0, -(n-1)), now)
	return p
}

// Contains indica si t cae dentro del periodo (ambos extremos inclusivos).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// ParseEntryDate interpreta la fecha de un movimiento: vacía = now, YYYY-MM-DD (inicio del día en loc) o RFC3339.
func ParseEntryDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: fecha inválida %q (YYYY-MM-DD o RFC3339)", domain.ErrInvalidInput, s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
