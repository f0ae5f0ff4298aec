package course

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/middleware"
	"github.com/trendtactics/academy-api/internal/respond"
	"github.com/trendtactics/academy-api/internal/validate"
)

// Handler exposes the course endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a course HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type enrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type progressRequest struct {
	EnrollmentID string   `json:"enrollmentId" validate:"required"`
	Progress     *float64 `json:"progress" validate:"required"`
	LessonID     string   `json:"lessonId"`
}

// List returns published courses filtered, sorted and paginated by query.
func (h *Handler) List(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext(), Query{
		CategoryID: c.Query("category"),
		Level:      c.Query("level"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		Ascending:  strings.EqualFold(c.Query("sortOrder"), "asc"),
		Page:       ParsePage(c.Query("limit"), c.Query("offset")),
	})
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, result)
}

// Detail returns one course by the id query parameter.
func (h *Handler) Detail(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return apperr.BadRequest("Course ID is required")
	}
	detail, err := h.service.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, detail)
}

// Enroll enrolls the caller in a course.
func (h *Handler) Enroll(c *fiber.Ctx) error {
	var req enrollRequest
	if err := parse(c, &req, "Course ID is required"); err != nil {
		return err
	}
	enrollment, err := h.service.Enroll(c.UserContext(), userID(c), req.CourseID)
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusCreated, "Successfully enrolled in course", enrollment)
}

// Enrollments lists the caller's enrollments.
func (h *Handler) Enrollments(c *fiber.Ctx) error {
	enrollments, err := h.service.Enrollments(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, enrollments)
}

// Progress records progress on one of the caller's enrollments.
func (h *Handler) Progress(c *fiber.Ctx) error {
	var req progressRequest
	if err := parse(c, &req, "Enrollment ID and progress are required"); err != nil {
		return err
	}
	result, err := h.service.UpdateProgress(c.UserContext(), userID(c), ProgressInput{
		EnrollmentID: req.EnrollmentID,
		Progress:     *req.Progress,
		LessonID:     req.LessonID,
	})
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Progress updated successfully", result)
}

func parse(c *fiber.Ctx, req any, message string) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return validate.Struct(req, message)
}

func userID(c *fiber.Ctx) string {
	ident, _ := middleware.IdentityFrom(c)
	return ident.ID
}
