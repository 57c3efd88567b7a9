package domain

import "time"

// MonthDay identifies one entry of a holiday table.
type MonthDay struct {
	Month time.Month
	Day   int
}

// HolidayCalendar answers whether a date is a non-working day. The per-year
// holiday table is data supplied by the caller; the calendar never computes
// holidays itself.
type HolidayCalendar struct {
	years map[int]map[MonthDay]struct{}
}

// NewHolidayCalendar builds a calendar from per-year holiday entries.
func NewHolidayCalendar(entries map[int][]MonthDay) HolidayCalendar {
	years := make(map[int]map[MonthDay]struct{}, len(entries))
	for year, days := range entries {
		set := make(map[MonthDay]struct{}, len(days))
		for _, d := range days {
			set[d] = struct{}{}
		}
		years[year] = set
	}

	return HolidayCalendar{years: years}
}

// IsNonWorkingDay reports whether d is a weekend or a listed public holiday.
// Years absent from the table fail open: only the weekend rule applies.
func (c HolidayCalendar) IsNonWorkingDay(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return true
	}

	days, ok := c.years[d.Year()]
	if !ok {
		return false
	}

	_, listed := days[MonthDay{Month: d.Month(), Day: d.Day()}]
	return listed
}
