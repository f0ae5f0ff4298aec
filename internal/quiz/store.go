package quiz

import "context"

const (
	table       = "quiz_results"
	recentLimit = 100

	// timestampLayout matches ISO 8601 with milliseconds, as browsers send it.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// PrimaryStore is the managed store quiz results go to first.
type PrimaryStore interface {
	// Name is the storage tag reported to clients.
	Name() string
	// Insert stores the submission and returns the generated row id.
	Insert(ctx context.Context, sub Submission) (any, error)
	// Recent returns up to limit results, newest first.
	Recent(ctx context.Context, limit int) ([]map[string]any, error)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
