package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/account"
)

// RegisterAuthRoutes mounts registration, login and session endpoints.
func RegisterAuthRoutes(r fiber.Router, h *account.Handler, authn, loginLimit fiber.Handler) {
	g := r.Group("/auth")
	g.Post("/register", h.Register)
	g.Post("/login", loginLimit, h.Login)
	g.Post("/logout", authn, h.Logout)
	g.Get("/user", authn, h.Me)
}

// RegisterUserRoutes mounts the caller's profile, preferences and stats.
func RegisterUserRoutes(r fiber.Router, h *account.Handler, authn fiber.Handler) {
	g := r.Group("/users", authn)
	g.Get("/profile", h.Profile)
	g.Put("/profile", h.UpdateProfile)
	g.Get("/preferences", h.Preferences)
	g.Put("/preferences", h.UpdatePreferences)
	g.Get("/learning-stats", h.LearningStats)
	g.Put("/learning-stats", h.UpdateLearningStats)
}
