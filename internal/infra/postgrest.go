package infra

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/supabase-community/postgrest-go"
)

// Tables is the PostgREST surface the Supabase adapters use. Both
// *supabase.Client and *postgrest.Client satisfy it.
type Tables interface {
	From(table string) *postgrest.QueryBuilder
}

// DecodeRows unmarshals a PostgREST response body into typed rows.
func DecodeRows[T any](body []byte) ([]T, error) {
	var rows []T
	if len(body) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// IsUniqueViolation reports whether a PostgREST error carries the Postgres
// unique_violation code.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
