package account

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu            sync.RWMutex
	users         map[string]User
	subscriptions map[string][]Subscription
	enrollments   map[string][]EnrollmentSummary
	preferences   map[string]Preferences
	stats         map[string]LearningStats
}

// NewMemoryRepository builds an in-memory account store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		users:         make(map[string]User),
		subscriptions: make(map[string][]Subscription),
		enrollments:   make(map[string][]EnrollmentSummary),
		preferences:   make(map[string]Preferences),
		stats:         make(map[string]LearningStats),
	}
}

func (r *memoryRepository) CreateUser(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return errors.New("duplicate key value violates unique constraint users_pkey (23505)")
	}
	now := time.Now().UTC()
	user.CreatedAt = &now
	user.UpdatedAt = &now
	r.users[user.ID] = user
	return nil
}

func (r *memoryRepository) RecordLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	at = at.UTC()
	user.LastLogin = &at
	r.users[userID] = user
	return nil
}

func (r *memoryRepository) FindUser(_ context.Context, userID string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) UpdateUser(_ context.Context, userID string, u ProfileUpdate) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	for dst, src := range map[*string]*string{
		&user.FirstName: u.FirstName, &user.LastName: u.LastName, &user.Bio: u.Bio,
		&user.Phone: u.Phone, &user.City: u.City, &user.Country: u.Country,
		&user.DateOfBirth: u.DateOfBirth, &user.Gender: u.Gender, &user.Avatar: u.Avatar,
		&user.Timezone: u.Timezone,
	} {
		if src != nil {
			*dst = *src
		}
	}
	updated := u.UpdatedAt.UTC()
	user.UpdatedAt = &updated
	r.users[userID] = user
	return user, nil
}

func (r *memoryRepository) Subscriptions(_ context.Context, userID string) ([]Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Subscription{}, r.subscriptions[userID]...), nil
}

func (r *memoryRepository) Enrollments(_ context.Context, userID string) ([]EnrollmentSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EnrollmentSummary{}, r.enrollments[userID]...), nil
}

func (r *memoryRepository) FindPreferences(_ context.Context, userID string) (Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, ok := r.preferences[userID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return prefs, nil
}

func (r *memoryRepository) CreatePreferences(_ context.Context, prefs Preferences) (Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.preferences[prefs.UserID]; exists {
		return Preferences{}, errors.New("duplicate key value violates unique constraint (23505)")
	}
	prefs.ID = uuid.NewString()
	r.preferences[prefs.UserID] = prefs
	return prefs, nil
}

func (r *memoryRepository) UpsertPreferences(_ context.Context, update PreferencesUpdate) (Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs, ok := r.preferences[update.UserID]
	if !ok {
		prefs = DefaultPreferences(update.UserID)
		prefs.ID = uuid.NewString()
	}
	prefs = update.apply(prefs)
	r.preferences[update.UserID] = prefs
	return prefs, nil
}

func (r *memoryRepository) FindLearningStats(_ context.Context, userID string) (LearningStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.stats[userID]
	if !ok {
		return LearningStats{}, ErrNotFound
	}
	return stats, nil
}

func (r *memoryRepository) CreateLearningStats(_ context.Context, stats LearningStats) (LearningStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stats[stats.UserID]; exists {
		return LearningStats{}, errors.New("duplicate key value violates unique constraint (23505)")
	}
	stats.ID = uuid.NewString()
	r.stats[stats.UserID] = stats
	return stats, nil
}

func (r *memoryRepository) UpdateLearningStats(_ context.Context, userID string, u StatsUpdate) (LearningStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return LearningStats{}, ErrNotFound
	}
	for dst, src := range map[*int]*int{
		&stats.TotalLearningTime: u.TotalLearningTime,
		&stats.CoursesCompleted:  u.CoursesCompleted,
		&stats.CurrentStreak:     u.CurrentStreak,
		&stats.LongestStreak:     u.LongestStreak,
	} {
		if src != nil {
			*dst = *src
		}
	}
	stats.LastActivity = u.LastActivity
	r.stats[userID] = stats
	return stats, nil
}
