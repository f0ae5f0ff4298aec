package quiz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/supabase-community/postgrest-go"

	"github.com/trendtactics/academy-api/internal/logging"
)

func TestSupabaseStoreInsert(t *testing.T) {
	var inserted []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quiz_results" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &inserted); err != nil {
			t.Errorf("decode insert body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"7d1c","email":null}]`))
	}))
	defer srv.Close()

	store := NewSupabaseStore(postgrest.NewClient(srv.URL, "public", nil))
	id, err := store.Insert(context.Background(), Submission{
		Summary:   map[string]any{"completed": true},
		Answers:   []any{"a"},
		Timestamp: "2025-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != "7d1c" {
		t.Fatalf("unexpected id %v", id)
	}
	if len(inserted) != 1 || inserted[0]["email"] != nil || inserted[0]["timestamp"] != "2025-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected insert body: %v", inserted)
	}
}

func TestSupabaseStoreRecentOrdersNewestFirst(t *testing.T) {
	var gotOrder, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrder = r.URL.Query().Get("order")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"b"},{"id":"a"}]`))
	}))
	defer srv.Close()

	store := NewSupabaseStore(postgrest.NewClient(srv.URL, "public", nil))
	results, err := store.Recent(context.Background(), recentLimit)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(results) != 2 || results[0]["id"] != "b" {
		t.Fatalf("unexpected results %v", results)
	}
	if gotLimit != "100" || !strings.HasPrefix(gotOrder, "created_at.desc") {
		t.Fatalf("unexpected query order=%q limit=%q", gotOrder, gotLimit)
	}
}

func TestSubmitKeepsCommittedRowWhenInsertReturnsNoRepresentation(t *testing.T) {
	inserts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inserts++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	fallback := newTestFileStore(t)
	svc := NewService(NewSupabaseStore(postgrest.NewClient(srv.URL, "public", nil)), fallback, logging.Discard())

	receipt, err := svc.Submit(context.Background(), validSubmission(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := Receipt{OK: true, Storage: "supabase"}
	if diff := cmp.Diff(want, receipt); diff != "" {
		t.Fatalf("receipt mismatch (-want +got):\n%s", diff)
	}
	if inserts != 1 {
		t.Fatalf("expected one insert, got %d", inserts)
	}
	if _, exists, err := fallback.Load(); err != nil || exists {
		t.Fatalf("fallback file must stay untouched, exists=%v err=%v", exists, err)
	}
}
