package domain

// Caps on merged source-control activity across all working directories.
const (
	MaxRepoFiles       = 20
	MaxCommitMessages  = 10
	MaxRepoUserQueries = 10
)

// RepoActivity is the day's source-control footprint plus user objectives
// recovered from auxiliary assistant logs next to the working directories.
type RepoActivity struct {
	FilesModified  []string
	CommitMessages []string
	UserQueries    []string
}

// IsEmpty reports whether nothing at all was collected.
func (r RepoActivity) IsEmpty() bool {
	return len(r.FilesModified) == 0 && len(r.CommitMessages) == 0 && len(r.UserQueries) == 0
}

// CapSlice bounds a list to at most n entries.
func CapSlice(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}

	return items
}
