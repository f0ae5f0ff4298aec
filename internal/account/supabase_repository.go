package account

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/trendtactics/academy-api/internal/infra"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/account")

const (
	tableUsers         = "users"
	tableSubscriptions = "subscriptions"
	tablePreferences   = "user_preferences"
	tableStats         = "learning_stats"
	tableEnrollments   = "enrollments"
	returnRows         = "representation"
)

// SupabaseRepository implements Repository over PostgREST.
type SupabaseRepository struct {
	db infra.Tables
}

// NewSupabaseRepository builds a repository over the given tables client.
func NewSupabaseRepository(db infra.Tables) *SupabaseRepository {
	return &SupabaseRepository{db: db}
}

func (r *SupabaseRepository) CreateUser(ctx context.Context, user User) error {
	_, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	if _, _, err := r.db.From(tableUsers).Insert(user, false, "", "minimal", "").Execute(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	_, span := tracer.Start(ctx, "Supabase.RecordLogin")
	defer span.End()

	_, _, err := r.db.From(tableUsers).
		Update(map[string]any{"last_login": at.UTC()}, "minimal", "").
		Eq("id", userID).
		Execute()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("update last_login: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) FindUser(ctx context.Context, userID string) (User, error) {
	_, span := tracer.Start(ctx, "Supabase.FindUser")
	defer span.End()

	body, _, err := r.db.From(tableUsers).Select("*", "", false).Eq("id", userID).Limit(1, "").Execute()
	if err != nil {
		span.RecordError(err)
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return first[User](body)
}

func (r *SupabaseRepository) UpdateUser(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	_, span := tracer.Start(ctx, "Supabase.UpdateUser")
	defer span.End()

	body, _, err := r.db.From(tableUsers).Update(update, returnRows, "").Eq("id", userID).Execute()
	if err != nil {
		span.RecordError(err)
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return first[User](body)
}

func (r *SupabaseRepository) Subscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	_, span := tracer.Start(ctx, "Supabase.Subscriptions")
	defer span.End()

	body, _, err := r.db.From(tableSubscriptions).
		Select("id,plan_type,start_date,end_date,is_active", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	return infra.DecodeRows[Subscription](body)
}

func (r *SupabaseRepository) Enrollments(ctx context.Context, userID string) ([]EnrollmentSummary, error) {
	_, span := tracer.Start(ctx, "Supabase.AccountEnrollments")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).
		Select("id,course_id,progress,enrollment_date", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select enrollments: %w", err)
	}
	return infra.DecodeRows[EnrollmentSummary](body)
}

func (r *SupabaseRepository) FindPreferences(ctx context.Context, userID string) (Preferences, error) {
	_, span := tracer.Start(ctx, "Supabase.FindPreferences")
	defer span.End()

	body, _, err := r.db.From(tablePreferences).Select("*", "", false).Eq("user_id", userID).Limit(1, "").Execute()
	if err != nil {
		span.RecordError(err)
		return Preferences{}, fmt.Errorf("select preferences: %w", err)
	}
	return first[Preferences](body)
}

func (r *SupabaseRepository) CreatePreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	_, span := tracer.Start(ctx, "Supabase.CreatePreferences")
	defer span.End()

	body, _, err := r.db.From(tablePreferences).Insert(prefs, false, "", returnRows, "").Execute()
	if err != nil {
		span.RecordError(err)
		return Preferences{}, fmt.Errorf("insert preferences: %w", err)
	}
	return first[Preferences](body)
}

func (r *SupabaseRepository) UpsertPreferences(ctx context.Context, update PreferencesUpdate) (Preferences, error) {
	_, span := tracer.Start(ctx, "Supabase.UpsertPreferences")
	defer span.End()

	body, _, err := r.db.From(tablePreferences).Upsert(update, "user_id", returnRows, "").Execute()
	if err != nil {
		span.RecordError(err)
		return Preferences{}, fmt.Errorf("upsert preferences: %w", err)
	}
	return first[Preferences](body)
}

func (r *SupabaseRepository) FindLearningStats(ctx context.Context, userID string) (LearningStats, error) {
	_, span := tracer.Start(ctx, "Supabase.FindLearningStats")
	defer span.End()

	body, _, err := r.db.From(tableStats).Select("*", "", false).Eq("user_id", userID).Limit(1, "").Execute()
	if err != nil {
		span.RecordError(err)
		return LearningStats{}, fmt.Errorf("select learning stats: %w", err)
	}
	return first[LearningStats](body)
}

func (r *SupabaseRepository) CreateLearningStats(ctx context.Context, stats LearningStats) (LearningStats, error) {
	_, span := tracer.Start(ctx, "Supabase.CreateLearningStats")
	defer span.End()

	body, _, err := r.db.From(tableStats).Insert(stats, false, "", returnRows, "").Execute()
	if err != nil {
		span.RecordError(err)
		return LearningStats{}, fmt.Errorf("insert learning stats: %w", err)
	}
	return first[LearningStats](body)
}

func (r *SupabaseRepository) UpdateLearningStats(ctx context.Context, userID string, update StatsUpdate) (LearningStats, error) {
	_, span := tracer.Start(ctx, "Supabase.UpdateLearningStats")
	defer span.End()

	body, _, err := r.db.From(tableStats).Update(update, returnRows, "").Eq("user_id", userID).Execute()
	if err != nil {
		span.RecordError(err)
		return LearningStats{}, fmt.Errorf("update learning stats: %w", err)
	}
	return first[LearningStats](body)
}

func first[T any](body []byte) (T, error) {
	var zero T
	rows, err := infra.DecodeRows[T](body)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}
