package course

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// Query selects published courses for a listing.
type Query struct {
	CategoryID string
	Level      string
	Search     string
	SortBy     string
	Ascending  bool
	Page       Page
}

// LessonCompletion marks one lesson done within an enrollment.
type LessonCompletion struct {
	UserID       string    `json:"user_id"`
	LessonID     string    `json:"lesson_id"`
	EnrollmentID string    `json:"enrollment_id"`
	Completed    bool      `json:"completed"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Repository persists courses and enrollments.
type Repository interface {
	// ListCourses returns one page of published courses and the total match count.
	ListCourses(ctx context.Context, q Query) ([]Summary, int, error)
	// FindCourse returns a published course with its lessons.
	FindCourse(ctx context.Context, courseID string) (Course, []Lesson, error)
	CountEnrollments(ctx context.Context, courseID string) (int, error)
	Ratings(ctx context.Context, courseID string) ([]float64, error)

	FindEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error)
	CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
	ListEnrollments(ctx context.Context, userID string) ([]Enrollment, error)
	// FindOwnedEnrollment returns the enrollment only when it belongs to userID.
	FindOwnedEnrollment(ctx context.Context, enrollmentID, userID string) (Enrollment, error)
	UpdateProgress(ctx context.Context, enrollmentID string, progress float64, at time.Time) (Enrollment, error)
	// CompleteCourse upserts the completion on (user_id, course_id) and
	// returns the stored completion date.
	CompleteCourse(ctx context.Context, userID, courseID string, at time.Time) (time.Time, error)
	CompleteLesson(ctx context.Context, c LessonCompletion) error
}
