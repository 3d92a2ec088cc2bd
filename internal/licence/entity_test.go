// Gesco | 2026
// entity_test.go

package licence_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/gesco-cm/gesco/internal/licence"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsCurrentlyValid(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		endsOn  time.Time
		today   time.Time
		want    bool
	}{
		{
			name:    "well within validity",
			enabled: true,
			endsOn:  day(2026, 12, 31),
			today:   day(2026, 9, 1),
			want:    true,
		},
		{
			name:    "end day itself still valid",
			enabled: true,
			endsOn:  day(2026, 9, 1),
			today:   day(2026, 9, 1),
			want:    true,
		},
		{
			name:    "day after end invalid",
			enabled: true,
			endsOn:  day(2026, 9, 1),
			today:   day(2026, 9, 2),
			want:    false,
		},
		{
			name:    "disabled licence never valid",
			enabled: false,
			endsOn:  day(2026, 12, 31),
			today:   day(2026, 9, 1),
			want:    false,
		},
		{
			// Douala runs an hour ahead of UTC: shortly after local
			// midnight the UTC clock still shows the previous day, but
			// the licence day has already rolled over.
			name:    "local midnight rollover ends validity",
			enabled: true,
			endsOn:  day(2026, 8, 31),
			today: time.Date(2026, 9, 1, 0, 30, 0, 0,
				time.FixedZone("WAT", 3600)),
			want: false,
		},
		{
			name:    "late local evening of end day still valid",
			enabled: true,
			endsOn:  day(2026, 9, 1),
			today: time.Date(2026, 9, 1, 23, 30, 0, 0,
				time.FixedZone("WAT", 3600)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			l := &licence.Licence{
				EntrepriseID: 1,
				StartsOn:     day(2026, 1, 1),
				EndsOn:       tt.endsOn,
				IsEnabled:    tt.enabled,
			}

			c.Assert(l.IsCurrentlyValid(tt.today), qt.Equals, tt.want)
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	c := qt.New(t)

	l := &licence.Licence{
		EntrepriseID: 1,
		StartsOn:     day(2026, 1, 1),
		EndsOn:       day(2026, 9, 11),
		IsEnabled:    true,
	}

	c.Assert(l.DaysRemaining(day(2026, 9, 1)), qt.Equals, 10)
	c.Assert(l.DaysRemaining(day(2026, 9, 11)), qt.Equals, 0)
	c.Assert(l.DaysRemaining(day(2026, 9, 12)), qt.Equals, -1)
}
