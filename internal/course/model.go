package course

import "time"

// Instructor is the embedded users projection of a course.
type Instructor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Category is the embedded categories projection of a course.
type Category struct {
	Name string `json:"name"`
}

// Lesson is a row of the lessons table.
type Lesson struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	Duration int    `json:"duration"`
}

// Course is a row of the courses table with its instructor and category.
// Duration is in minutes.
type Course struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Level        string      `json:"level"`
	Duration     int         `json:"duration"`
	Price        float64     `json:"price"`
	CategoryID   string      `json:"category_id,omitempty"`
	InstructorID string      `json:"instructor_id,omitempty"`
	IsPublished  bool        `json:"is_published"`
	CreatedAt    time.Time   `json:"created_at"`
	Instructor   *Instructor `json:"instructor,omitempty"`
	Category     *Category   `json:"categories,omitempty"`
}

// Summary is a course as listed, with its lesson and enrollment counts.
type Summary struct {
	Course
	LessonCount     int `json:"lesson_count"`
	EnrollmentCount int `json:"enrollment_count"`
}

// Detail is a single course with lessons and aggregate figures.
type Detail struct {
	Course
	Lessons         []Lesson `json:"lessons"`
	EnrollmentCount int      `json:"enrollment_count"`
	AverageRating   float64  `json:"average_rating"`
	TotalRatings    int      `json:"total_ratings"`
}

// EnrolledCourse is the course projection embedded in an enrollment.
type EnrolledCourse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	InstructorID string    `json:"instructor_id,omitempty"`
	Duration     int       `json:"duration"`
	Level        string    `json:"level"`
	Category     *Category `json:"categories,omitempty"`
}

// Enrollment is a row of the enrollments table. Progress is caller-supplied
// on every update; nothing accumulates server-side.
type Enrollment struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	CourseID       string          `json:"course_id"`
	Progress       float64         `json:"progress"`
	EnrollmentDate time.Time       `json:"enrollment_date"`
	LastAccessed   *time.Time      `json:"last_accessed,omitempty"`
	Course         *EnrolledCourse `json:"courses,omitempty"`
}

// ProgressResult is an updated enrollment plus the completion date when the
// update completed the course.
type ProgressResult struct {
	Enrollment
	CompletionDate *time.Time `json:"completion_date"`
}

// ListResult is the course listing with its pagination metadata.
type ListResult struct {
	Courses    []Summary  `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the returned window of a listing.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}
