package domain

import "time"

// TimeWindow is one calendar day's local-time span as a half-open interval
// [Start, End). End is the next wall-clock midnight, so across a DST change
// the elapsed span may be 23 or 25 hours.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow builds the window for the calendar day containing day.
// Any time-of-day component is ignored.
func NewTimeWindow(day time.Time) TimeWindow {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	return TimeWindow{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// SameDay reports whether t falls on the window's calendar date in the
// window's location. Used by sources that only carry a modification time.
func (w TimeWindow) SameDay(t time.Time) bool {
	local := t.In(w.Start.Location())
	return local.Year() == w.Start.Year() && local.YearDay() == w.Start.YearDay()
}

// Date returns the window's calendar day at local midnight.
func (w TimeWindow) Date() time.Time {
	return w.Start
}
