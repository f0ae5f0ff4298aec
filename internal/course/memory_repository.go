package course

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository for development and tests.
// Unlike the check-then-act in the service, it enforces (user_id, course_id)
// uniqueness itself, the way the database constraint does.
type MemoryRepository struct {
	mu          sync.RWMutex
	courses     map[string]Course
	lessons     map[string][]Lesson
	ratings     map[string][]float64
	enrollments map[string]Enrollment
	completions map[string]time.Time
	lessonsDone map[string]LessonCompletion
}

// NewMemoryRepository builds an empty course store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		courses:     make(map[string]Course),
		lessons:     make(map[string][]Lesson),
		ratings:     make(map[string][]float64),
		enrollments: make(map[string]Enrollment),
		completions: make(map[string]time.Time),
		lessonsDone: make(map[string]LessonCompletion),
	}
}

// Seed stores a course with its lessons and ratings, assigning ids where missing.
func (r *MemoryRepository) Seed(c Course, lessons []Lesson, ratings ...float64) Course {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	for i := range lessons {
		if lessons[i].ID == "" {
			lessons[i].ID = uuid.NewString()
		}
		lessons[i].CourseID = c.ID
	}
	r.courses[c.ID] = c
	r.lessons[c.ID] = lessons
	r.ratings[c.ID] = ratings
	return c
}

// LessonCompleted reports whether the user has completed the lesson.
func (r *MemoryRepository) LessonCompleted(userID, lessonID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lessonsDone[userID+"/"+lessonID].Completed
}

func (r *MemoryRepository) ListCourses(_ context.Context, q Query) ([]Summary, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Summary
	for _, c := range r.courses {
		if !c.IsPublished {
			continue
		}
		if q.CategoryID != "" && c.CategoryID != q.CategoryID {
			continue
		}
		if q.Level != "" && c.Level != q.Level {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, Summary{
			Course:          c,
			LessonCount:     len(r.lessons[c.ID]),
			EnrollmentCount: r.countEnrollments(c.ID),
		})
	}

	column := SortColumn(q.SortBy)
	slices.SortStableFunc(matched, func(a, b Summary) int {
		order := compareBy(column, a.Course, b.Course)
		if !q.Ascending {
			order = -order
		}
		return order
	})

	total := len(matched)
	start := min(q.Page.Offset, total)
	end := min(q.Page.Offset+q.Page.Limit, total)
	return matched[start:end], total, nil
}

func (r *MemoryRepository) FindCourse(_ context.Context, courseID string) (Course, []Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[courseID]
	if !ok || !c.IsPublished {
		return Course{}, nil, ErrNotFound
	}
	return c, append([]Lesson{}, r.lessons[courseID]...), nil
}

func (r *MemoryRepository) CountEnrollments(_ context.Context, courseID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countEnrollments(courseID), nil
}

func (r *MemoryRepository) Ratings(_ context.Context, courseID string) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]float64{}, r.ratings[courseID]...), nil
}

func (r *MemoryRepository) FindEnrollment(_ context.Context, userID, courseID string) (Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return e, nil
		}
	}
	return Enrollment{}, ErrNotFound
}

func (r *MemoryRepository) CreateEnrollment(_ context.Context, e Enrollment) (Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return Enrollment{}, ErrDuplicate
		}
	}
	e.ID = uuid.NewString()
	r.enrollments[e.ID] = e
	return e, nil
}

func (r *MemoryRepository) ListEnrollments(_ context.Context, userID string) ([]Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Enrollment
	for _, e := range r.enrollments {
		if e.UserID != userID {
			continue
		}
		if c, ok := r.courses[e.CourseID]; ok {
			e.Course = &EnrolledCourse{
				ID:           c.ID,
				Title:        c.Title,
				Description:  c.Description,
				Thumbnail:    c.Thumbnail,
				InstructorID: c.InstructorID,
				Duration:     c.Duration,
				Level:        c.Level,
				Category:     c.Category,
			}
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Enrollment) int {
		return b.EnrollmentDate.Compare(a.EnrollmentDate)
	})
	return out, nil
}

func (r *MemoryRepository) FindOwnedEnrollment(_ context.Context, enrollmentID, userID string) (Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enrollments[enrollmentID]
	if !ok || e.UserID != userID {
		return Enrollment{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepository) UpdateProgress(_ context.Context, enrollmentID string, progress float64, at time.Time) (Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[enrollmentID]
	if !ok {
		return Enrollment{}, ErrNotFound
	}
	at = at.UTC()
	e.Progress = progress
	e.LastAccessed = &at
	r.enrollments[enrollmentID] = e
	return e, nil
}

func (r *MemoryRepository) CompleteCourse(_ context.Context, userID, courseID string, at time.Time) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at = at.UTC()
	r.completions[userID+"/"+courseID] = at
	return at, nil
}

func (r *MemoryRepository) CompleteLesson(_ context.Context, c LessonCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lessonsDone[c.UserID+"/"+c.LessonID] = c
	return nil
}

// countEnrollments must be called with r.mu held.
func (r *MemoryRepository) countEnrollments(courseID string) int {
	n := 0
	for _, e := range r.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n
}

func compareBy(column string, a, b Course) int {
	switch column {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "price":
		return cmp.Compare(a.Price, b.Price)
	case "level":
		return cmp.Compare(a.Level, b.Level)
	case "duration":
		return cmp.Compare(a.Duration, b.Duration)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
