package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/ai"
	"github.com/trendtactics/academy-api/internal/functions"
	"github.com/trendtactics/academy-api/internal/quiz"
)

// RegisterAIRoutes mounts the public AI passthrough endpoints.
func RegisterAIRoutes(r fiber.Router, h *ai.Handler) {
	g := r.Group("/ai")
	g.Post("/analyze", h.Analyze)
	g.Post("/chat", h.Chat)
	g.Post("/image", h.Image)
}

// RegisterFunctionRoutes mounts remote function invocation.
func RegisterFunctionRoutes(r fiber.Router, h *functions.Handler) {
	r.Post("/functions/:name", h.Invoke)
}

// RegisterQuizRoutes mounts quiz ingestion and the recent-results listing.
func RegisterQuizRoutes(r fiber.Router, h *quiz.Handler, idem fiber.Handler) {
	r.Post("/quiz-results", idem, h.Submit)
	r.Get("/quiz-results", h.Recent)
}
