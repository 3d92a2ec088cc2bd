// Gesco | 2026
// entity.go

package licence

import (
	"time"
)

// Licence authorizes an entreprise to produce new business documents
// between StartsOn and EndsOn.
type Licence struct {
	ID             int64     `db:"id"`
	EntrepriseID   int64     `db:"entreprise_id"`
	StartsOn       time.Time `db:"starts_on"`
	EndsOn         time.Time `db:"ends_on"`
	IsEnabled      bool      `db:"is_enabled"`
	ExtensionsUsed int       `db:"extensions_used"`
}

// IsCurrentlyValid reports whether the licence covers the given day:
// enabled and not yet past its end date. The end day itself is included.
func (l *Licence) IsCurrentlyValid(today time.Time) bool {
	if !l.IsEnabled {
		return false
	}

	return !CalendarDay(l.EndsOn).Before(CalendarDay(today))
}

// DaysRemaining is the number of whole days of validity left, zero or
// negative once expired.
func (l *Licence) DaysRemaining(today time.Time) int {
	remaining := CalendarDay(l.EndsOn).Sub(CalendarDay(today))
	return int(remaining / (24 * time.Hour))
}

// CalendarDay reduces an instant to its calendar date in the instant's own
// zone, so day comparisons never shift with the deployment's offset from
// UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
