// Package functions forwards calls to the provider's named edge functions.
package functions

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/functions")

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	// ErrInvalidName is returned for function names outside [a-z0-9-]+.
	ErrInvalidName = errors.New("invalid function name")
	// ErrNotConfigured is returned when no provider URL is set.
	ErrNotConfigured = errors.New("functions endpoint not configured")
)

// CallError is a non-2xx answer from a function.
type CallError struct {
	Name   string
	Status int
	Body   string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("function %s returned %d: %s", e.Name, e.Status, e.Body)
}

// Invoker posts JSON bodies to {baseURL}/functions/v1/{name}.
type Invoker struct {
	baseURL string
	anonKey string
	timeout time.Duration
}

// NewInvoker builds an invoker for the provider at baseURL. anonKey is sent
// as the apikey header and as the bearer when the caller has none.
func NewInvoker(baseURL, anonKey string, timeout time.Duration) *Invoker {
	return &Invoker{baseURL: strings.TrimRight(baseURL, "/"), anonKey: anonKey, timeout: timeout}
}

// ValidName reports whether name may be forwarded.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Invoke calls the named function with body, authenticating as token when
// set. The answer is decoded as JSON, or returned as a string when it is not.
func (i *Invoker) Invoke(ctx context.Context, name, token string, body []byte) (any, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	if i.baseURL == "" {
		return nil, ErrNotConfigured
	}
	_, span := tracer.Start(ctx, "Supabase.InvokeFunction")
	defer span.End()

	if token == "" {
		token = i.anonKey
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	agent := fiber.Post(i.baseURL + "/functions/v1/" + name)
	agent.ContentType(fiber.MIMEApplicationJSON)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if i.anonKey != "" {
		agent.Set("apikey", i.anonKey)
	}
	agent.Body(body).Timeout(i.timeout)

	status, resp, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		return nil, fmt.Errorf("invoke %s: %w", name, err)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		err := &CallError{Name: name, Status: status, Body: string(resp)}
		span.RecordError(err)
		return nil, err
	}

	if len(resp) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(resp, &result); err != nil {
		return string(resp), nil
	}
	return result, nil
}
