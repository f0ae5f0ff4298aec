package quiz

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
)

// Runs only against a real database: QUIZ_TEST_DATABASE_URL=postgres://...
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("QUIZ_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("QUIZ_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	// The temporary table shadows any real quiz_results for this session.
	if _, err := conn.Exec(ctx, `
        CREATE TEMP TABLE quiz_results (
            id          BIGSERIAL PRIMARY KEY,
            email       TEXT,
            summary     JSONB NOT NULL,
            answers     JSONB NOT NULL,
            "timestamp" TIMESTAMPTZ NOT NULL,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        )`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	store := NewPostgresStore(conn)
	sub := Submission{
		Email:     "ada@example.com",
		Summary:   map[string]any{"completed": true},
		Answers:   []any{map[string]any{"q": "a"}},
		Timestamp: "2025-01-01T00:00:00.000Z",
	}
	id, err := store.Insert(ctx, sub)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	results, err := store.Recent(ctx, recentLimit)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(results) != 1 || results[0]["id"] != id || results[0]["email"] != "ada@example.com" {
		t.Fatalf("unexpected results %v (id %v)", results, id)
	}
}
