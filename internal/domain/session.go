package domain

const maxGoalRunes = 200

// SessionContext is one agent working session: its metadata plus the file
// effects and user messages recovered from the session's audit log.
type SessionContext struct {
	ID               string
	Title            string
	DurationMinutes  int
	InteractionCount int
	Goal             string
	FilesCreated     []string
	FilesModified    []string
	FullMessages     []string
}

// TruncateGoal applies the goal budget to a first user message.
func TruncateGoal(text string) string {
	return Truncate(text, maxGoalRunes)
}
