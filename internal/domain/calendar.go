package domain

import "time"

// CalendarEvent is one non-all-day meeting on the target date.
type CalendarEvent struct {
	Title           string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	CalendarName    string
}

// EventDurationMinutes computes a meeting length, never reporting less than
// one minute even for zero-length or inverted events.
func EventDurationMinutes(start, end time.Time) int {
	minutes := int(end.Sub(start).Minutes())
	if minutes < 1 {
		return 1
	}

	return minutes
}
