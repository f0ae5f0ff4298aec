// Package respond renders the JSON envelopes shared by the API handlers.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
)

// Envelope is the uniform body of the CRUD endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK writes {success: true, data}.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Message writes {success: true, message, data}.
func Message(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

// ErrorHandler turns handler errors into {success: false, message}. Only the
// classified message reaches the client; causes go to the log.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		message := "Internal server error"

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = ae.Kind.Status()
			message = ae.Message
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Any("error", err),
		}
		if reqID := c.GetRespHeader(fiber.HeaderXRequestID); reqID != "" {
			attrs = append(attrs, slog.String("request_id", reqID))
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Debug("request rejected", attrs...)
		}

		return c.Status(status).JSON(Envelope{Success: false, Message: message})
	}
}
