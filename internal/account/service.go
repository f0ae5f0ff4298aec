package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/identity"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Country     string
	City        string
	Phone       string
	DateOfBirth string
	Gender      string
}

// AuthResult is the user/session pair returned by register and login.
type AuthResult struct {
	User    identity.Identity `json:"user"`
	Session *identity.Session `json:"session"`
}

// StatsInput is one learning activity report.
type StatsInput struct {
	TotalTime       *int
	CompletedCourse bool
	Activity        bool
}

// Service implements the account endpoints over an auth provider and the
// account tables.
type Service struct {
	auth   identity.Provider
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new account service.
func NewService(auth identity.Provider, repo Repository, logger *slog.Logger) *Service {
	return &Service{auth: auth, repo: repo, logger: logger, now: time.Now}
}

// Register signs the user up with the provider, then creates the users row.
// A failed row insert is logged and does not fail the registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	ident, session, err := s.auth.SignUp(ctx, identity.SignUpRequest{
		Email:    in.Email,
		Password: in.Password,
		Metadata: compact(map[string]any{
			"first_name":    in.FirstName,
			"last_name":     in.LastName,
			"country":       in.Country,
			"city":          in.City,
			"phone":         in.Phone,
			"date_of_birth": in.DateOfBirth,
			"gender":        in.Gender,
		}),
	})
	if err != nil {
		var rej *identity.RejectedError
		if errors.As(err, &rej) {
			return AuthResult{}, apperr.BadRequest(rej.Reason)
		}
		return AuthResult{}, apperr.Service("Internal server error", err)
	}

	user := User{
		ID:              ident.ID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Country:         in.Country,
		City:            in.City,
		Phone:           in.Phone,
		DateOfBirth:     in.DateOfBirth,
		Gender:          in.Gender,
		IsEmailVerified: ident.EmailVerified,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error("user row creation failed", slog.String("user_id", ident.ID), slog.Any("error", err))
	}

	return AuthResult{User: ident, Session: session}, nil
}

// Login exchanges credentials for a session and stamps last_login on a best
// effort basis.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	ident, session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return AuthResult{}, apperr.Unauthorized("Invalid credentials", err)
		}
		return AuthResult{}, apperr.Service("Internal server error", err)
	}
	if err := s.repo.RecordLogin(ctx, ident.ID, s.now()); err != nil {
		s.logger.Warn("last_login update failed", slog.String("user_id", ident.ID), slog.Any("error", err))
	}
	return AuthResult{User: ident, Session: &session}, nil
}

// Logout revokes the session behind accessToken.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if err := s.auth.SignOut(ctx, accessToken); err != nil {
		return apperr.Service("Logout failed", err)
	}
	return nil
}

// Account returns the users row with subscriptions, preferences,
// enrollments and learning stats.
func (s *Service) Account(ctx context.Context, userID string) (Profile, error) {
	profile, err := s.profile(ctx, userID, "Failed to fetch user data")
	if err != nil {
		return Profile{}, err
	}
	enrollments, err := s.repo.Enrollments(ctx, userID)
	if err != nil {
		return Profile{}, apperr.Service("Failed to fetch user data", err)
	}
	profile.Enrollments = enrollments
	return profile, nil
}

// Profile returns the users row with subscriptions, preferences and stats.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return s.profile(ctx, userID, "Failed to fetch profile")
}

func (s *Service) profile(ctx context.Context, userID, failure string) (Profile, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return Profile{}, apperr.Service(failure, err)
	}
	profile := Profile{User: user}

	if profile.Subscriptions, err = s.repo.Subscriptions(ctx, userID); err != nil {
		return Profile{}, apperr.Service(failure, err)
	}
	prefs, err := s.repo.FindPreferences(ctx, userID)
	switch {
	case err == nil:
		profile.Preferences = &prefs
	case !errors.Is(err, ErrNotFound):
		return Profile{}, apperr.Service(failure, err)
	}
	stats, err := s.repo.FindLearningStats(ctx, userID)
	switch {
	case err == nil:
		profile.LearningStats = &stats
	case !errors.Is(err, ErrNotFound):
		return Profile{}, apperr.Service(failure, err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update to the caller's users row.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	if update.empty() {
		return User{}, apperr.BadRequest("No profile fields to update")
	}
	update.UpdatedAt = s.now().UTC()
	user, err := s.repo.UpdateUser(ctx, userID, update)
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return User{}, apperr.Service("Failed to update profile", err)
	}
	return user, nil
}

// Preferences returns the caller's preferences, creating defaults on first read.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	prefs, err := s.repo.FindPreferences(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Preferences{}, apperr.Service("Failed to fetch preferences", err)
	}
	prefs, err = s.repo.CreatePreferences(ctx, DefaultPreferences(userID))
	if err != nil {
		return Preferences{}, apperr.Service("Failed to fetch preferences", err)
	}
	return prefs, nil
}

// UpdatePreferences upserts the caller's preferences on user_id.
func (s *Service) UpdatePreferences(ctx context.Context, update PreferencesUpdate) (Preferences, error) {
	prefs, err := s.repo.UpsertPreferences(ctx, update)
	if err != nil {
		return Preferences{}, apperr.Service("Failed to update preferences", err)
	}
	return prefs, nil
}

// LearningStats returns the caller's stats, creating a zeroed row on first read.
func (s *Service) LearningStats(ctx context.Context, userID string) (LearningStats, error) {
	stats, err := s.repo.FindLearningStats(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return LearningStats{}, apperr.Service("Failed to fetch learning stats", err)
	}
	stats, err = s.repo.CreateLearningStats(ctx, LearningStats{UserID: userID, LastActivity: s.now().UTC()})
	if err != nil {
		return LearningStats{}, apperr.Service("Failed to fetch learning stats", err)
	}
	return stats, nil
}

// RecordActivity folds one activity report into the stored stats. Every
// derived value is computed from the row as read at call time.
func (s *Service) RecordActivity(ctx context.Context, userID string, in StatsInput) (LearningStats, error) {
	current, err := s.repo.FindLearningStats(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return LearningStats{}, apperr.NotFound("Learning stats not found")
	}
	if err != nil {
		return LearningStats{}, apperr.Service("Failed to update learning stats", err)
	}

	now := s.now()
	update := StatsUpdate{LastActivity: now.UTC()}
	if in.TotalTime != nil {
		total := current.TotalLearningTime + *in.TotalTime
		update.TotalLearningTime = &total
	}
	if in.CompletedCourse {
		completed := current.CoursesCompleted + 1
		update.CoursesCompleted = &completed
	}
	if in.Activity {
		streak, longest := advanceStreak(current, now)
		if streak != current.CurrentStreak {
			update.CurrentStreak = &streak
		}
		if longest != current.LongestStreak {
			update.LongestStreak = &longest
		}
	}

	stats, err := s.repo.UpdateLearningStats(ctx, userID, update)
	if err != nil {
		return LearningStats{}, apperr.Service("Failed to update learning stats", err)
	}
	return stats, nil
}

func compact(m map[string]any) map[string]any {
	for k, v := range m {
		if s, ok := v.(string); ok && s == "" {
			delete(m, k)
		}
	}
	return m
}
