package quiz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
)

// Handler exposes the quiz-results endpoints. They keep their own
// {ok, ...} envelope instead of the {success, ...} one.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a quiz HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Submit stores a posted quiz result.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var payload map[string]any
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return h.fail(c, apperr.BadRequest("Invalid JSON body"), false)
		}
	}
	sub, err := ParseSubmission(payload)
	if err != nil {
		return h.fail(c, err, false)
	}
	receipt, err := h.service.Submit(c.UserContext(), sub)
	if err != nil {
		return h.fail(c, err, true)
	}
	return c.Status(http.StatusOK).JSON(receipt)
}

// Recent lists stored quiz results.
func (h *Handler) Recent(c *fiber.Ctx) error {
	listing, err := h.service.Recent(c.UserContext())
	if err != nil {
		return h.fail(c, err, false)
	}
	return c.Status(http.StatusOK).JSON(listing)
}

// fail renders err as {ok: false, error, details}. withDetails exposes the
// cause of a service error.
func (h *Handler) fail(c *fiber.Ctx, err error, withDetails bool) error {
	status := apperr.KindOf(err).Status()
	body := failure{Error: "Internal server error"}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		body.Error = ae.Message
		if withDetails && ae.Kind == apperr.KindService && ae.Err != nil {
			body.Details = ae.Err.Error()
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("quiz request failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.Status(status).JSON(body)
}
