package course

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"go.opentelemetry.io/otel"

	"github.com/trendtactics/academy-api/internal/infra"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/course")

const (
	tableCourses     = "courses"
	tableEnrollments = "enrollments"
	tableRatings     = "course_ratings"
	tableCompletions = "course_completions"
	tableLessonProg  = "lesson_progress"

	listColumns       = "*,instructor:users(first_name,last_name,avatar),categories(name),lessons(count),enrollments(count)"
	detailColumns     = "*,instructor:users(first_name,last_name,avatar,bio),categories(name),lessons(*)"
	enrollmentColumns = "*,courses(id,title,description,thumbnail,instructor_id,duration,level,categories(name))"
)

type countRow struct {
	Count int `json:"count"`
}

type listRow struct {
	Course
	Lessons     []countRow `json:"lessons"`
	Enrollments []countRow `json:"enrollments"`
}

type ratingRow struct {
	Rating float64 `json:"rating"`
}

type completionRow struct {
	CompletionDate time.Time `json:"completion_date"`
}

type detailRow struct {
	Course
	Lessons []Lesson `json:"lessons"`
}

// SupabaseRepository implements Repository over PostgREST.
type SupabaseRepository struct {
	db infra.Tables
}

// NewSupabaseRepository builds a repository over the given tables client.
func NewSupabaseRepository(db infra.Tables) *SupabaseRepository {
	return &SupabaseRepository{db: db}
}

func (r *SupabaseRepository) ListCourses(ctx context.Context, q Query) ([]Summary, int, error) {
	_, span := tracer.Start(ctx, "Supabase.ListCourses")
	defer span.End()

	query := r.db.From(tableCourses).Select(listColumns, "exact", false).Eq("is_published", "true")
	if q.CategoryID != "" {
		query = query.Eq("category_id", q.CategoryID)
	}
	if q.Level != "" {
		query = query.Eq("level", q.Level)
	}
	if q.Search != "" {
		query = query.Ilike("title", "%"+q.Search+"%")
	}
	body, count, err := query.
		Order(SortColumn(q.SortBy), &postgrest.OrderOpts{Ascending: q.Ascending}).
		Range(q.Page.Offset, q.Page.Last(), "").
		Execute()
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("select courses: %w", err)
	}

	rows, err := infra.DecodeRows[listRow](body)
	if err != nil {
		return nil, 0, err
	}
	courses := make([]Summary, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, Summary{
			Course:          row.Course,
			LessonCount:     sumCounts(row.Lessons),
			EnrollmentCount: sumCounts(row.Enrollments),
		})
	}
	return courses, int(count), nil
}

func (r *SupabaseRepository) FindCourse(ctx context.Context, courseID string) (Course, []Lesson, error) {
	_, span := tracer.Start(ctx, "Supabase.FindCourse")
	defer span.End()

	body, _, err := r.db.From(tableCourses).
		Select(detailColumns, "", false).
		Eq("id", courseID).
		Eq("is_published", "true").
		Limit(1, "").
		Execute()
	if err != nil {
		span.RecordError(err)
		return Course{}, nil, fmt.Errorf("select course: %w", err)
	}
	row, err := first[detailRow](body)
	if err != nil {
		return Course{}, nil, err
	}
	return row.Course, row.Lessons, nil
}

func (r *SupabaseRepository) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	_, span := tracer.Start(ctx, "Supabase.CountEnrollments")
	defer span.End()

	_, count, err := r.db.From(tableEnrollments).Select("id", "exact", true).Eq("course_id", courseID).Execute()
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return int(count), nil
}

func (r *SupabaseRepository) Ratings(ctx context.Context, courseID string) ([]float64, error) {
	_, span := tracer.Start(ctx, "Supabase.Ratings")
	defer span.End()

	body, _, err := r.db.From(tableRatings).Select("rating", "", false).Eq("course_id", courseID).Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	rows, err := infra.DecodeRows[ratingRow](body)
	if err != nil {
		return nil, err
	}
	ratings := make([]float64, len(rows))
	for i, row := range rows {
		ratings[i] = row.Rating
	}
	return ratings, nil
}

func (r *SupabaseRepository) FindEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error) {
	_, span := tracer.Start(ctx, "Supabase.FindEnrollment")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("course_id", courseID).
		Limit(1, "").
		Execute()
	if err != nil {
		span.RecordError(err)
		return Enrollment{}, fmt.Errorf("select enrollment: %w", err)
	}
	return first[Enrollment](body)
}

func (r *SupabaseRepository) CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error) {
	_, span := tracer.Start(ctx, "Supabase.CreateEnrollment")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).Insert(map[string]any{
		"user_id":         e.UserID,
		"course_id":       e.CourseID,
		"enrollment_date": e.EnrollmentDate.UTC(),
		"progress":        e.Progress,
	}, false, "", "representation", "").Execute()
	if err != nil {
		span.RecordError(err)
		if infra.IsUniqueViolation(err) {
			return Enrollment{}, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return Enrollment{}, fmt.Errorf("insert enrollment: %w", err)
	}
	return first[Enrollment](body)
}

func (r *SupabaseRepository) ListEnrollments(ctx context.Context, userID string) ([]Enrollment, error) {
	_, span := tracer.Start(ctx, "Supabase.ListEnrollments")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).
		Select(enrollmentColumns, "", false).
		Eq("user_id", userID).
		Order("enrollment_date", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select enrollments: %w", err)
	}
	return infra.DecodeRows[Enrollment](body)
}

func (r *SupabaseRepository) FindOwnedEnrollment(ctx context.Context, enrollmentID, userID string) (Enrollment, error) {
	_, span := tracer.Start(ctx, "Supabase.FindOwnedEnrollment")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).
		Select("id,user_id,course_id,progress,enrollment_date", "", false).
		Eq("id", enrollmentID).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		span.RecordError(err)
		return Enrollment{}, fmt.Errorf("select enrollment: %w", err)
	}
	return first[Enrollment](body)
}

func (r *SupabaseRepository) UpdateProgress(ctx context.Context, enrollmentID string, progress float64, at time.Time) (Enrollment, error) {
	_, span := tracer.Start(ctx, "Supabase.UpdateProgress")
	defer span.End()

	body, _, err := r.db.From(tableEnrollments).
		Update(map[string]any{"progress": progress, "last_accessed": at.UTC()}, "representation", "").
		Eq("id", enrollmentID).
		Execute()
	if err != nil {
		span.RecordError(err)
		return Enrollment{}, fmt.Errorf("update progress: %w", err)
	}
	return first[Enrollment](body)
}

func (r *SupabaseRepository) CompleteCourse(ctx context.Context, userID, courseID string, at time.Time) (time.Time, error) {
	_, span := tracer.Start(ctx, "Supabase.CompleteCourse")
	defer span.End()

	body, _, err := r.db.From(tableCompletions).Upsert(map[string]any{
		"user_id":         userID,
		"course_id":       courseID,
		"completion_date": at.UTC(),
	}, "user_id,course_id", "representation", "").Execute()
	if err != nil {
		span.RecordError(err)
		return time.Time{}, fmt.Errorf("upsert completion: %w", err)
	}
	row, err := first[completionRow](body)
	if err != nil {
		return time.Time{}, err
	}
	return row.CompletionDate, nil
}

func (r *SupabaseRepository) CompleteLesson(ctx context.Context, c LessonCompletion) error {
	_, span := tracer.Start(ctx, "Supabase.CompleteLesson")
	defer span.End()

	if _, _, err := r.db.From(tableLessonProg).Upsert(c, "user_id,lesson_id", "minimal", "").Execute(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("upsert lesson progress: %w", err)
	}
	return nil
}

func sumCounts(rows []countRow) int {
	total := 0
	for _, row := range rows {
		total += row.Count
	}
	return total
}

func first[T any](body []byte) (T, error) {
	var zero T
	rows, err := infra.DecodeRows[T](body)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}
