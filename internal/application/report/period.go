package report

import (
	"fmt"
	"time"

	"github.com/jhoicas/pos-beras/internal/domain"
)

const dateLayout = "2006-01-02"

// Range período semiabierto [From, To) en la zona horaria de la tienda.
type Range struct {
	From time.Time
	To   time.Time
}

// Day devuelve el día calendario que contiene t.
func Day(t time.Time, loc *time.Location) Range {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return Range{From: from, To: from.AddDate(0, 0, 1)}
}

// ParseRange interpreta fechas YYYY-MM-DD inclusivas. Vacías usan el día de now.
// Solo "from" cubre ese día hasta el de now; solo "to" cubre el día indicado.
func ParseRange(fromStr, toStr string, now time.Time, loc *time.Location) (Range, error) {
	today := Day(now, loc)
	r := today

	if fromStr != "" {
		from, err := time.ParseInLocation(dateLayout, fromStr, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: from inválido %q", domain.ErrInvalidInput, fromStr)
		}
		r.From = from
	}
	if toStr != "" {
		to, err := time.ParseInLocation(dateLayout, toStr, loc)
		if err != nil {
			return Range{}, fmt.Errorf("%w: to inválido %q", domain.ErrInvalidInput, toStr)
		}
		r.To = to.AddDate(0, 0, 1) // inclusive hasta el final del día
		if fromStr == "" {
			r.From = to
		}
	}
	if !r.From.Before(r.To) {
		return Range{}, fmt.Errorf("%w: from no puede ser posterior a to", domain.ErrInvalidInput)
	}
	return r, nil
}

// Label fechas inclusivas del período para las respuestas.
func (r Range) Label() (from, to string) {
	return r.From.Format(dateLayout), r.To.AddDate(0, 0, -1).Format(dateLayout)
}
