package account

import "time"

// User is a row of the users table, keyed by the auth provider's user id.
type User struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Country         string     `json:"country"`
	City            string     `json:"city,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	DateOfBirth     string     `json:"date_of_birth,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	Avatar          string     `json:"avatar,omitempty"`
	Timezone        string     `json:"timezone,omitempty"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ProfileUpdate is a partial update of a users row. Nil fields are left
// untouched.
type ProfileUpdate struct {
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	Avatar      *string   `json:"avatar,omitempty"`
	Timezone    *string   `json:"timezone,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u ProfileUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Bio == nil && u.Phone == nil &&
		u.City == nil && u.Country == nil && u.DateOfBirth == nil && u.Gender == nil &&
		u.Avatar == nil && u.Timezone == nil
}

// Subscription is a row of the subscriptions table.
type Subscription struct {
	ID        string     `json:"id"`
	PlanType  string     `json:"plan_type"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// Preferences is a row of the user_preferences table.
type Preferences struct {
	ID                     string `json:"id,omitempty"`
	UserID                 string `json:"user_id"`
	NotificationEmails     bool   `json:"notification_emails"`
	NewsletterSubscription bool   `json:"newsletter_subscription"`
	PrivacyLevel           string `json:"privacy_level"`
	Theme                  string `json:"theme"`
	Language               string `json:"language"`
	Timezone               string `json:"timezone"`
}

// DefaultPreferences are created on first read.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:                 userID,
		NotificationEmails:     true,
		NewsletterSubscription: true,
		PrivacyLevel:           "public",
		Theme:                  "light",
		Language:               "en",
		Timezone:               "UTC",
	}
}

// PreferencesUpdate is upserted on user_id; nil fields keep their value.
type PreferencesUpdate struct {
	UserID                 string  `json:"user_id"`
	NotificationEmails     *bool   `json:"notification_emails,omitempty"`
	NewsletterSubscription *bool   `json:"newsletter_subscription,omitempty"`
	PrivacyLevel           *string `json:"privacy_level,omitempty"`
	Theme                  *string `json:"theme,omitempty"`
	Language               *string `json:"language,omitempty"`
	Timezone               *string `json:"timezone,omitempty"`
}

func (p PreferencesUpdate) apply(to Preferences) Preferences {
	if p.NotificationEmails != nil {
		to.NotificationEmails = *p.NotificationEmails
	}
	if p.NewsletterSubscription != nil {
		to.NewsletterSubscription = *p.NewsletterSubscription
	}
	if p.PrivacyLevel != nil {
		to.PrivacyLevel = *p.PrivacyLevel
	}
	if p.Theme != nil {
		to.Theme = *p.Theme
	}
	if p.Language != nil {
		to.Language = *p.Language
	}
	if p.Timezone != nil {
		to.Timezone = *p.Timezone
	}
	return to
}

// LearningStats is a row of the learning_stats table.
type LearningStats struct {
	ID                   string    `json:"id,omitempty"`
	UserID               string    `json:"user_id"`
	TotalCoursesEnrolled int       `json:"total_courses_enrolled"`
	CoursesCompleted     int       `json:"courses_completed"`
	TotalLearningTime    int       `json:"total_learning_time"`
	CurrentStreak        int       `json:"current_streak"`
	LongestStreak        int       `json:"longest_streak"`
	LastActivity         time.Time `json:"last_activity"`
}

// StatsUpdate is a partial update of a learning_stats row.
type StatsUpdate struct {
	TotalLearningTime *int      `json:"total_learning_time,omitempty"`
	CoursesCompleted  *int      `json:"courses_completed,omitempty"`
	CurrentStreak     *int      `json:"current_streak,omitempty"`
	LongestStreak     *int      `json:"longest_streak,omitempty"`
	LastActivity      time.Time `json:"last_activity"`
}

// EnrollmentSummary is the enrollment shape embedded in the account view.
type EnrollmentSummary struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"course_id"`
	Progress       float64    `json:"progress"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
}

// Profile is a users row with its related records.
type Profile struct {
	User
	Subscriptions []Subscription      `json:"subscriptions"`
	Preferences   *Preferences        `json:"user_preferences"`
	LearningStats *LearningStats      `json:"learning_stats"`
	Enrollments   []EnrollmentSummary `json:"user_enrollments,omitempty"`
}
