package account

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository persists the account tables.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	FindUser(ctx context.Context, userID string) (User, error)
	UpdateUser(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	Subscriptions(ctx context.Context, userID string) ([]Subscription, error)
	Enrollments(ctx context.Context, userID string) ([]EnrollmentSummary, error)

	FindPreferences(ctx context.Context, userID string) (Preferences, error)
	CreatePreferences(ctx context.Context, prefs Preferences) (Preferences, error)
	UpsertPreferences(ctx context.Context, update PreferencesUpdate) (Preferences, error)

	FindLearningStats(ctx context.Context, userID string) (LearningStats, error)
	CreateLearningStats(ctx context.Context, stats LearningStats) (LearningStats, error)
	UpdateLearningStats(ctx context.Context, userID string, update StatsUpdate) (LearningStats, error)
}
