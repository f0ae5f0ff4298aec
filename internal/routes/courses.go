package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/course"
)

// RegisterCourseRoutes mounts the public catalog and the authenticated
// enrollment endpoints. idem runs after authn so replays are per user.
func RegisterCourseRoutes(r fiber.Router, h *course.Handler, authn, idem fiber.Handler) {
	g := r.Group("/courses")
	g.Get("/", h.List)
	g.Get("/detail", h.Detail)
	g.Post("/enroll", authn, idem, h.Enroll)
	g.Get("/enrollments", authn, h.Enrollments)
	g.Post("/progress", authn, h.Progress)
}
