package course

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/trendtactics/academy-api/internal/apperr"
)

// ProgressInput is one progress report for an enrollment.
type ProgressInput struct {
	EnrollmentID string
	Progress     float64
	LessonID     string
}

// Service implements the course catalog and enrollment endpoints.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new course service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns one page of published courses.
func (s *Service) List(ctx context.Context, q Query) (ListResult, error) {
	courses, total, err := s.repo.ListCourses(ctx, q)
	if err != nil {
		return ListResult{}, apperr.Service("Failed to fetch courses", err)
	}
	if courses == nil {
		courses = []Summary{}
	}
	return ListResult{Courses: courses, Pagination: q.Page.Describe(total)}, nil
}

// Detail returns a published course with its lessons and aggregates. A
// failed count or rating lookup is logged and reported as zero.
func (s *Service) Detail(ctx context.Context, courseID string) (Detail, error) {
	c, lessons, err := s.repo.FindCourse(ctx, courseID)
	if errors.Is(err, ErrNotFound) {
		return Detail{}, apperr.NotFound("Course not found")
	}
	if err != nil {
		return Detail{}, apperr.Service("Failed to fetch course", err)
	}
	if lessons == nil {
		lessons = []Lesson{}
	}
	detail := Detail{Course: c, Lessons: lessons}

	if detail.EnrollmentCount, err = s.repo.CountEnrollments(ctx, courseID); err != nil {
		s.logger.Warn("enrollment count failed", slog.String("course_id", courseID), slog.Any("error", err))
	}
	ratings, err := s.repo.Ratings(ctx, courseID)
	if err != nil {
		s.logger.Warn("rating lookup failed", slog.String("course_id", courseID), slog.Any("error", err))
	}
	detail.AverageRating, detail.TotalRatings = average(ratings), len(ratings)
	return detail, nil
}

// Enroll creates an enrollment for the caller. The existence check and the
// insert are not atomic; the store's uniqueness constraint settles races.
func (s *Service) Enroll(ctx context.Context, userID, courseID string) (Enrollment, error) {
	if _, _, err := s.repo.FindCourse(ctx, courseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Enrollment{}, apperr.NotFound("Course not found or not available")
		}
		return Enrollment{}, apperr.Service("Failed to enroll in course", err)
	}

	_, err := s.repo.FindEnrollment(ctx, userID, courseID)
	switch {
	case err == nil:
		return Enrollment{}, apperr.Conflict("Already enrolled in this course")
	case !errors.Is(err, ErrNotFound):
		return Enrollment{}, apperr.Service("Failed to enroll in course", err)
	}

	e, err := s.repo.CreateEnrollment(ctx, Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		Progress:       0,
		EnrollmentDate: s.now().UTC(),
	})
	if errors.Is(err, ErrDuplicate) {
		return Enrollment{}, apperr.Conflict("Already enrolled in this course")
	}
	if err != nil {
		return Enrollment{}, apperr.Service("Failed to enroll in course", err)
	}
	return e, nil
}

// Enrollments lists the caller's enrollments, newest first.
func (s *Service) Enrollments(ctx context.Context, userID string) ([]Enrollment, error) {
	out, err := s.repo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, apperr.Service("Failed to fetch enrollments", err)
	}
	if out == nil {
		out = []Enrollment{}
	}
	return out, nil
}

// UpdateProgress stores the reported progress on the caller's enrollment.
// Reaching 100 records a course completion; a lesson id marks that lesson
// done, and a failure there is only logged.
func (s *Service) UpdateProgress(ctx context.Context, userID string, in ProgressInput) (ProgressResult, error) {
	if in.Progress < 0 || in.Progress > 100 {
		return ProgressResult{}, apperr.BadRequest("Progress must be between 0 and 100")
	}
	current, err := s.repo.FindOwnedEnrollment(ctx, in.EnrollmentID, userID)
	if errors.Is(err, ErrNotFound) {
		return ProgressResult{}, apperr.NotFound("Enrollment not found or unauthorized")
	}
	if err != nil {
		return ProgressResult{}, apperr.Service("Failed to update progress", err)
	}

	now := s.now()
	updated, err := s.repo.UpdateProgress(ctx, current.ID, in.Progress, now)
	if err != nil {
		return ProgressResult{}, apperr.Service("Failed to update progress", err)
	}
	result := ProgressResult{Enrollment: updated}

	if in.Progress == 100 {
		completed, err := s.repo.CompleteCourse(ctx, userID, current.CourseID, now)
		if err != nil {
			return ProgressResult{}, apperr.Service("Failed to update progress", err)
		}
		result.CompletionDate = &completed
	}

	if in.LessonID != "" {
		err := s.repo.CompleteLesson(ctx, LessonCompletion{
			UserID:       userID,
			LessonID:     in.LessonID,
			EnrollmentID: current.ID,
			Completed:    true,
			CompletedAt:  now.UTC(),
		})
		if err != nil {
			s.logger.Warn("lesson progress update failed",
				slog.String("enrollment_id", current.ID),
				slog.String("lesson_id", in.LessonID),
				slog.Any("error", err))
		}
	}
	return result, nil
}

func average(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}
