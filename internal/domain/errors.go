package domain

import "errors"

var (
	ErrNoActivityData      = errors.New("no activity data for the target date")
	ErrNoCalendarSelection = errors.New("no work calendars selected")
	ErrBadDateArgument     = errors.New("date must be in YYYYMMDD form")
)
