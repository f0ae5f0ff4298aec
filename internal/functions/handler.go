package functions

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/identity"
	"github.com/trendtactics/academy-api/internal/respond"
)

// Handler exposes POST /functions/:name.
type Handler struct {
	invoker *Invoker
	logger  *slog.Logger
}

// NewHandler builds a functions HTTP handler.
func NewHandler(invoker *Invoker, logger *slog.Logger) *Handler {
	return &Handler{invoker: invoker, logger: logger}
}

// Invoke forwards the request body to the named function with the caller's
// bearer credential.
func (h *Handler) Invoke(c *fiber.Ctx) error {
	name := c.Params("name")
	if !ValidName(name) {
		return apperr.BadRequest("Invalid function name")
	}
	body := c.Body()
	if len(body) > 0 && !json.Valid(body) {
		return apperr.BadRequest("Invalid request body")
	}
	token, _ := identity.BearerToken(c.Get(fiber.HeaderAuthorization))

	result, err := h.invoker.Invoke(c.UserContext(), name, token, body)
	if err != nil {
		h.logger.Error("function invocation failed", slog.String("function", name), slog.Any("error", err))
		var callErr *CallError
		switch {
		case errors.Is(err, ErrNotConfigured):
			return apperr.Service("Supabase is not configured", err)
		case errors.As(err, &callErr):
			return apperr.Service(fmt.Sprintf("Function %s failed with status %d", name, callErr.Status), err)
		default:
			return apperr.Service("Function invocation failed", err)
		}
	}
	return respond.OK(c, http.StatusOK, result)
}
