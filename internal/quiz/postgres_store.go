package quiz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the pgx surface PostgresStore needs. *pgxpool.Pool and
// *pgx.Conn both satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps quiz results in quiz_results over a direct connection.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore builds a primary store over a pgx pool or connection.
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Insert(ctx context.Context, sub Submission) (any, error) {
	const query = `
        INSERT INTO quiz_results (email, summary, answers, "timestamp")
        VALUES ($1, $2, $3, $4)
        RETURNING id::text`
	var id string
	if err := s.db.QueryRow(ctx, query, nullable(sub.Email), sub.Summary, sub.Answers, sub.Timestamp).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert quiz result: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]map[string]any, error) {
	const query = `
        SELECT id::text AS id, email, summary, answers, "timestamp", created_at
        FROM quiz_results
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select quiz results: %w", err)
	}
	results, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan quiz results: %w", err)
	}
	return results, nil
}
