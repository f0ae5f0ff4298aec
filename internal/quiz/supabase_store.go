package quiz

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"go.opentelemetry.io/otel"

	"github.com/trendtactics/academy-api/internal/infra"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/quiz")

type idRow struct {
	ID any `json:"id"`
}

// SupabaseStore keeps quiz results in the quiz_results table.
type SupabaseStore struct {
	db infra.Tables
}

// NewSupabaseStore builds a primary store over the given tables client.
func NewSupabaseStore(db infra.Tables) *SupabaseStore {
	return &SupabaseStore{db: db}
}

func (s *SupabaseStore) Name() string { return "supabase" }

func (s *SupabaseStore) Insert(ctx context.Context, sub Submission) (any, error) {
	_, span := tracer.Start(ctx, "Supabase.InsertQuizResult")
	defer span.End()

	row := map[string]any{
		"email":     nullable(sub.Email),
		"summary":   sub.Summary,
		"answers":   sub.Answers,
		"timestamp": sub.Timestamp,
	}
	body, _, err := s.db.From(table).Insert([]map[string]any{row}, false, "", "representation", "").Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert quiz result: %w", err)
	}
	// The row is committed once Execute succeeds. A body the select policy
	// hides or that fails to decode only costs the id.
	rows, err := infra.DecodeRows[idRow](body)
	if err != nil || len(rows) == 0 {
		return nil, nil
	}
	return rows[0].ID, nil
}

func (s *SupabaseStore) Recent(ctx context.Context, limit int) ([]map[string]any, error) {
	_, span := tracer.Start(ctx, "Supabase.RecentQuizResults")
	defer span.End()

	body, _, err := s.db.From(table).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select quiz results: %w", err)
	}
	return infra.DecodeRows[map[string]any](body)
}
