package ports

import "context"

// Summarizer condenses a full report into a short AI-written digest.
type Summarizer interface {
	Summarize(ctx context.Context, report string) (string, error)
}

// Messenger forwards text to a chat webhook.
type Messenger interface {
	Post(ctx context.Context, text string) error
}

// Notifier raises a local desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// SelectionStore persists the user's work-calendar choice between runs.
type SelectionStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}

// CalendarPrompter asks the user to pick work calendars from the available
// list. Only invoked by the calling shell, never from inside a fetch.
type CalendarPrompter interface {
	SelectCalendars(ctx context.Context, available []string) ([]string, error)
}

// ReportRecord is one archived report run.
type ReportRecord struct {
	RunID        string
	Date         string
	Path         string
	TotalSeconds float64
	AppCount     int
	MeetingCount int
	TaskCount    int
	CreatedAt    string
}

// ReportArchive indexes generated reports for the history listing.
type ReportArchive interface {
	Record(ctx context.Context, record ReportRecord) error
	Recent(ctx context.Context, limit int) ([]ReportRecord, error)
}
