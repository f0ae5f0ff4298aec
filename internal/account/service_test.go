package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/identity"
	"github.com/trendtactics/academy-api/internal/logging"
)

type failingUserRepo struct {
	Repository
}

func (failingUserRepo) CreateUser(context.Context, User) error {
	return errors.New("permission denied for table users")
}

func newTestService(repo Repository) (*Service, *identity.MemoryProvider) {
	provider := identity.NewMemoryProvider("secret")
	return NewService(provider, repo, logging.Discard()), provider
}

func registerInput() RegisterInput {
	return RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "hunter22", Country: "UK"}
}

func TestRegisterCreatesUserRow(t *testing.T) {
	repo := NewMemoryRepository()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Session == nil || result.User.Metadata["first_name"] != "Ada" {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := result.User.Metadata["city"]; ok {
		t.Fatalf("empty optional fields should not be sent as metadata")
	}

	row, err := repo.FindUser(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("expected users row: %v", err)
	}
	if row.Email != "ada@example.com" || row.Country != "UK" || !row.IsEmailVerified {
		t.Fatalf("unexpected users row %+v", row)
	}
}

func TestRegisterSurvivesUserRowFailure(t *testing.T) {
	svc, _ := newTestService(failingUserRepo{Repository: NewMemoryRepository()})

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("registration should not fail on users row error: %v", err)
	}
}

func TestRegisterDuplicateIsBadRequest(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, registerInput())
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindBadRequest || ae.Message != "User already registered" {
		t.Fatalf("expected provider message as bad request, got %v", err)
	}
}

func TestLoginStampsLastLogin(t *testing.T) {
	repo := NewMemoryRepository()
	svc, _ := newTestService(repo)
	fixed := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "nope"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	row, _ := repo.FindUser(ctx, reg.User.ID)
	if row.LastLogin == nil || !row.LastLogin.Equal(fixed) {
		t.Fatalf("expected last_login %s, got %v", fixed, row.LastLogin)
	}
}

func TestPreferencesDefaultsThenUpsert(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepository())
	ctx := context.Background()

	prefs, err := svc.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if !prefs.NotificationEmails || prefs.Theme != "light" || prefs.Timezone != "UTC" {
		t.Fatalf("unexpected defaults %+v", prefs)
	}

	dark := "dark"
	off := false
	updated, err := svc.UpdatePreferences(ctx, PreferencesUpdate{UserID: "u1", Theme: &dark, NewsletterSubscription: &off})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Theme != "dark" || updated.NewsletterSubscription || updated.Language != "en" {
		t.Fatalf("unexpected upsert result %+v", updated)
	}
}

func TestRecordActivity(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepository())
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	ctx := context.Background()

	if _, err := svc.RecordActivity(ctx, "u1", StatsInput{Activity: true}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found before stats exist, got %v", err)
	}
	if _, err := svc.LearningStats(ctx, "u1"); err != nil {
		t.Fatalf("create stats: %v", err)
	}

	minutes := 45
	day = day.AddDate(0, 0, 1)
	stats, err := svc.RecordActivity(ctx, "u1", StatsInput{TotalTime: &minutes, CompletedCourse: true, Activity: true})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.TotalLearningTime != 45 || stats.CoursesCompleted != 1 || stats.CurrentStreak != 1 || stats.LongestStreak != 1 {
		t.Fatalf("unexpected stats after first activity %+v", stats)
	}

	day = day.AddDate(0, 0, 1)
	stats, err = svc.RecordActivity(ctx, "u1", StatsInput{TotalTime: &minutes, Activity: true})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.TotalLearningTime != 90 || stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
		t.Fatalf("expected streak to continue, got %+v", stats)
	}
}

func TestUpdateProfileRequiresFields(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepository())
	if _, err := svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	bio := "hi"
	if _, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{Bio: &bio}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
