package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/config"
)

// RegisterHealthRoutes adds the readiness endpoint. It pings Postgres and
// Redis when they are configured.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus := "ok"
		redisStatus := "ok"

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				dbStatus = err.Error()
			}
		} else {
			dbStatus = "not configured"
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = err.Error()
			}
		} else {
			redisStatus = "not configured"
		}
		status := http.StatusOK
		if !healthy(dbStatus) || !healthy(redisStatus) {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"postgres": dbStatus, "redis": redisStatus},
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

func healthy(status string) bool {
	return status == "ok" || status == "not configured"
}

// healthHandler answers without touching any provider.
func healthHandler(cfg config.Config) fiber.Handler {
	supabase := "not configured"
	if cfg.SupabaseConfigured() {
		supabase = "configured"
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "API is running!",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"supabase":  supabase,
		})
	}
}
