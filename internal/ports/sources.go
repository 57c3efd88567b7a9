package ports

import (
	"context"

	"github.com/jaekyeom/dayrecap/internal/domain"
)

// ActivitySource is the desktop tracker: focused-window and browser-tab
// events for one day. Implementations return whatever partial data they
// could collect; per-bucket failures stay inside the adapter.
type ActivitySource interface {
	FetchWindowActivity(ctx context.Context, window domain.TimeWindow) (map[string]float64, error)
	FetchWebActivity(ctx context.Context, window domain.TimeWindow) (map[string]float64, []domain.URLVisit, error)
}

// ConversationSource scans a tool's conversation logs and pairs the day's
// turns into tasks.
type ConversationSource interface {
	FetchTasks(ctx context.Context, window domain.TimeWindow) ([]domain.ConversationTask, error)
}

// SessionSource groups a tool's logs by session file and extracts the
// session metadata and file effects.
type SessionSource interface {
	FetchSessions(ctx context.Context, window domain.TimeWindow) ([]domain.SessionContext, error)
}

// QuerySource extracts tagged user queries from per-project dump files.
type QuerySource interface {
	FetchQueries(ctx context.Context, window domain.TimeWindow) ([]domain.ToolQuery, error)
}

// HistorySource reads a flat CLI invocation history.
type HistorySource interface {
	FetchCommands(ctx context.Context, window domain.TimeWindow) ([]domain.CommandEntry, error)
}

// CalendarSource queries the platform calendar store for meetings on the
// target date, restricted to the given calendar names.
type CalendarSource interface {
	FetchEvents(ctx context.Context, window domain.TimeWindow, calendarNames []string) ([]domain.CalendarEvent, error)
}

// CalendarDirectory lists every calendar the store knows about. Used only by
// the one-time selection step, never by the day fetch itself.
type CalendarDirectory interface {
	ListCalendars(ctx context.Context) ([]string, error)
}

// RepoSource inspects git history in the configured working directories.
type RepoSource interface {
	FetchRepoActivity(ctx context.Context, window domain.TimeWindow) (domain.RepoActivity, error)
}
