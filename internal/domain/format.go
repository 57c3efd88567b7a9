package domain

import (
	"fmt"
	"unicode/utf8"
)

// FormatSeconds renders a duration the way the reports spell it: raw seconds
// under a minute, otherwise hours and minutes.
func FormatSeconds(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%d초", int(seconds))
	}

	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%d시간 %d분", hours, minutes)
	}

	return fmt.Sprintf("%d분", minutes)
}

// Truncate cuts s to at most n runes, appending an ellipsis when it was cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	return string(runes[:n]) + "..."
}
