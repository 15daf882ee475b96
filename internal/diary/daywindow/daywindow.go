// Package daywindow maps civil dates onto absolute time.
//
// A day is the half-open interval [first instant of the day, first instant
// of the next day) in a given zone, expressed in UTC. Zone rules are applied
// per day, so a day can last 23, 24 or 25 hours around DST transitions.
package daywindow

import (
	"time"
)

// Window is a half-open UTC interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Compute returns the window covering the civil date d in loc.
func Compute(d Date, loc *time.Location) Window {
	return Window{
		Start: startOfDay(d, loc),
		End:   startOfDay(d.Next(), loc),
	}
}

// Contains reports whether Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func startOfDay(d Date, loc *time.Location) time.Time {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	if DateOf(t, loc).Before(d) {
		// local midnight does not exist (DST gap at 00:00) and time.Date
		// normalized it backwards; the day begins when the gap ends
		if _, end := t.ZoneBounds(); !end.IsZero() {
			t = end
		}
	}
	return t.UTC()
}
