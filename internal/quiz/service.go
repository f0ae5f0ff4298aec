package quiz

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/trendtactics/academy-api/internal/apperr"
)

// Service stores quiz results in the primary store, falling back to the
// local file when the primary is unconfigured or fails.
type Service struct {
	primary  PrimaryStore
	fallback *FileStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds the ingestion service. primary may be nil.
func NewService(primary PrimaryStore, fallback *FileStore, logger *slog.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, logger: logger, now: time.Now}
}

// Submit stores one submission. Nothing is retried and nothing is
// deduplicated: posting the same payload twice stores two records.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if sub.Timestamp == "" {
		sub.Timestamp = s.now().UTC().Format(timestampLayout)
	}

	message := "Saved to file (Supabase not configured)"
	if s.primary != nil {
		id, err := s.primary.Insert(ctx, sub)
		if err == nil {
			s.logger.Info("quiz result stored", slog.String("storage", s.primary.Name()), slog.Any("id", id))
			return Receipt{OK: true, ID: id, Storage: s.primary.Name()}, nil
		}
		s.logger.Error("primary quiz insert failed, falling back to file",
			slog.String("storage", s.primary.Name()),
			slog.Any("error", err))
		message = "Saved to file (" + label(s.primary.Name()) + " insert failed)"
	}

	id, err := s.fallback.Append(sub.Payload)
	if err != nil {
		return Receipt{}, apperr.Service("Failed to save result", err)
	}
	s.logger.Info("quiz result stored", slog.String("storage", "file"), slog.String("id", id))
	return Receipt{OK: true, Storage: "file", Message: message}, nil
}

// Recent lists stored results with the same precedence as Submit: the
// primary store when configured, the fallback file otherwise.
func (s *Service) Recent(ctx context.Context) (Listing, error) {
	if s.primary != nil {
		results, err := s.primary.Recent(ctx, recentLimit)
		if err != nil {
			return Listing{}, apperr.Service("Failed to fetch results", err)
		}
		if results == nil {
			results = []map[string]any{}
		}
		return Listing{OK: true, Results: results, Storage: s.primary.Name()}, nil
	}

	results, exists, err := s.fallback.Load()
	if err != nil {
		return Listing{}, apperr.Service("Failed to fetch results", err)
	}
	if !exists {
		return Listing{OK: true, Results: []map[string]any{}, Storage: "none"}, nil
	}
	return Listing{OK: true, Results: results, Storage: "file"}, nil
}

func label(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
