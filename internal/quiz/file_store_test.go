package quiz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trendtactics/academy-api/internal/logging"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "data"), logging.Discard())
	store.now = func() time.Time { return time.UnixMilli(1735689600123) }
	return store
}

func TestFileStoreAppendCreatesDirAndStampsRecord(t *testing.T) {
	store := newTestFileStore(t)

	id, err := store.Append(map[string]any{"summary": map[string]any{"completed": true}, "extra": "kept"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id != "file-1735689600123" {
		t.Fatalf("unexpected id %s", id)
	}

	records, exists, err := store.Load()
	if err != nil || !exists {
		t.Fatalf("load: exists=%v err=%v", exists, err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec["id"] != id || rec["extra"] != "kept" || rec["saved_at"] != "2025-01-01T00:00:00.123Z" {
		t.Fatalf("unexpected record: %v", rec)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Fatalf("expected a pretty-printed array, got %s", data)
	}
}

func TestFileStoreTreatsCorruptFileAsEmpty(t *testing.T) {
	store := newTestFileStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if _, err := store.Append(map[string]any{"answers": []any{}}); err != nil {
		t.Fatalf("append over corrupt file: %v", err)
	}
	records, _, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected the corrupt contents to be replaced by one record, got %d", len(records))
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := newTestFileStore(t)
	records, exists, err := store.Load()
	if err != nil || exists || records != nil {
		t.Fatalf("expected no file, got records=%v exists=%v err=%v", records, exists, err)
	}
}

func TestFileStoreAppendFailsWhenDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store := NewFileStore(blocker, logging.Discard())
	if _, err := store.Append(map[string]any{}); err == nil {
		t.Fatalf("expected append to fail when the data dir is a regular file")
	}
}
