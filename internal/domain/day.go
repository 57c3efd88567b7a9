package domain

import "time"

// ToolQuery is a single user query extracted from an IDE assistant dump,
// grouped by project.
type ToolQuery struct {
	Project string
	Query   string
}

// CommandEntry is one CLI invocation recovered from the assistant's history
// file.
type CommandEntry struct {
	Time      time.Time
	Command   string
	SessionID string
}

// AggregatedDay is the immutable union of every fetcher's output for one
// window. It is assembled once per run and only ever read afterwards.
type AggregatedDay struct {
	Window   TimeWindow
	Activity ActivitySummary
	Tasks    []ConversationTask
	Sessions []SessionContext
	Queries  []ToolQuery
	Commands []CommandEntry
	Meetings []CalendarEvent
	Repo     RepoActivity
}

// TotalActiveSeconds sums all per-app focus durations.
func (d AggregatedDay) TotalActiveSeconds() float64 {
	var total float64
	for _, duration := range d.Activity.AppDurations {
		total += duration
	}

	return total
}

// HasActivity reports whether the tracker produced any app or web data. A
// day without either is treated as "no data" by the caller and skipped.
func (d AggregatedDay) HasActivity() bool {
	return len(d.Activity.AppDurations) > 0 || len(d.Activity.DomainDurations) > 0
}
