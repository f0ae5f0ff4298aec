package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/logging"
)

type fakePrimary struct {
	err      error
	inserted []Submission
	results  []map[string]any
}

func (f *fakePrimary) Name() string { return "supabase" }

func (f *fakePrimary) Insert(_ context.Context, sub Submission) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, sub)
	return len(f.inserted), nil
}

func (f *fakePrimary) Recent(context.Context, int) ([]map[string]any, error) {
	return f.results, f.err
}

func validSubmission(t *testing.T) Submission {
	t.Helper()
	sub, err := ParseSubmission(map[string]any{
		"summary": map[string]any{"completed": true},
		"answers": []any{map[string]any{"q": "a"}},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return sub
}

func fileRecords(t *testing.T, store *FileStore) int {
	t.Helper()
	records, _, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return len(records)
}

func TestParseSubmissionRequiresSummaryAndAnswers(t *testing.T) {
	cases := []map[string]any{
		nil,
		{"summary": map[string]any{}},
		{"answers": []any{}},
		{"summary": "done", "answers": []any{}},
		{"summary": map[string]any{}, "answers": "a"},
	}
	for _, payload := range cases {
		if _, err := ParseSubmission(payload); !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("payload %v: expected bad request, got %v", payload, err)
		}
	}
}

func TestSubmitPrimarySuccessSkipsFile(t *testing.T) {
	primary := &fakePrimary{}
	store := newTestFileStore(t)
	svc := NewService(primary, store, logging.Discard())
	svc.now = func() time.Time { return time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC) }

	receipt, err := svc.Submit(context.Background(), validSubmission(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := Receipt{OK: true, ID: 1, Storage: "supabase"}
	if diff := cmp.Diff(want, receipt); diff != "" {
		t.Fatalf("receipt mismatch (-want +got):\n%s", diff)
	}
	if len(primary.inserted) != 1 || primary.inserted[0].Timestamp != "2025-02-01T08:30:00.000Z" {
		t.Fatalf("expected one insert with a generated timestamp, got %+v", primary.inserted)
	}
	if _, exists, _ := store.Load(); exists {
		t.Fatalf("fallback file must not be written when the primary succeeds")
	}
}

func TestSubmitFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakePrimary{err: errors.New("connection refused")}
	store := newTestFileStore(t)
	svc := NewService(primary, store, logging.Discard())

	receipt, err := svc.Submit(context.Background(), validSubmission(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Storage != "file" || receipt.Message != "Saved to file (Supabase insert failed)" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if n := fileRecords(t, store); n != 1 {
		t.Fatalf("expected one fallback record, got %d", n)
	}
}

func TestSubmitUnconfiguredIsNotIdempotent(t *testing.T) {
	store := newTestFileStore(t)
	svc := NewService(nil, store, logging.Discard())
	sub := validSubmission(t)

	for range 2 {
		receipt, err := svc.Submit(context.Background(), sub)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if receipt.Message != "Saved to file (Supabase not configured)" {
			t.Fatalf("unexpected message %q", receipt.Message)
		}
	}
	if n := fileRecords(t, store); n != 2 {
		t.Fatalf("expected the same payload to be stored twice, got %d", n)
	}
}

func TestRecentPrecedence(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	listing, err := NewService(nil, store, logging.Discard()).Recent(ctx)
	if err != nil || listing.Storage != "none" || len(listing.Results) != 0 {
		t.Fatalf("expected empty listing from no source, got %+v %v", listing, err)
	}

	if _, err := store.Append(map[string]any{"summary": map[string]any{}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	listing, err = NewService(nil, store, logging.Discard()).Recent(ctx)
	if err != nil || listing.Storage != "file" || len(listing.Results) != 1 {
		t.Fatalf("expected file listing, got %+v %v", listing, err)
	}

	primary := &fakePrimary{results: []map[string]any{{"id": "a"}, {"id": "b"}}}
	listing, err = NewService(primary, store, logging.Discard()).Recent(ctx)
	if err != nil || listing.Storage != "supabase" || len(listing.Results) != 2 {
		t.Fatalf("expected primary listing, got %+v %v", listing, err)
	}

	primary.err = errors.New("timeout")
	if _, err := NewService(primary, store, logging.Discard()).Recent(ctx); !apperr.Is(err, apperr.KindService) {
		t.Fatalf("expected service error, got %v", err)
	}
}
