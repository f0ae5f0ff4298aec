package quiz

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

const fileName = "quiz-results.json"

// FileStore is the local fallback: one pretty-printed JSON array of records.
// Appends are an unguarded read-modify-write, so two concurrent appends can
// lose one of the records.
type FileStore struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewFileStore builds a fallback store writing dir/quiz-results.json.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger, now: time.Now}
}

// Path is the location of the fallback file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Append adds payload with a generated file- id and a saved_at stamp. An
// unreadable or corrupt file is replaced by a fresh array.
func (s *FileStore) Append(payload map[string]any) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	records, err := s.read()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("fallback file unreadable, starting a new array", slog.String("path", s.Path()), slog.Any("error", err))
		records = nil
	}

	now := s.now().UTC()
	id := fmt.Sprintf("file-%d", now.UnixMilli())
	record := make(map[string]any, len(payload)+2)
	maps.Copy(record, payload)
	record["id"] = id
	record["saved_at"] = now.Format(timestampLayout)
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode fallback file: %w", err)
	}
	if err := s.write(data); err != nil {
		return "", err
	}
	return id, nil
}

// Load returns the stored records. exists is false when no file was ever
// written.
func (s *FileStore) Load() (records []map[string]any, exists bool, err error) {
	records, err = s.read()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, true, nil
}

func (s *FileStore) read() ([]map[string]any, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode fallback file: %w", err)
	}
	return records, nil
}

// write replaces the file through a temp file so readers never see a torn
// array.
func (s *FileStore) write(data []byte) error {
	tmp, err := os.CreateTemp(s.dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("write fallback file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write fallback file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write fallback file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write fallback file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("write fallback file: %w", err)
	}
	return nil
}
