package account

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/identity"
	"github.com/trendtactics/academy-api/internal/logging"
	"github.com/trendtactics/academy-api/internal/middleware"
	"github.com/trendtactics/academy-api/internal/respond"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type countingRepo struct {
	Repository
	creates int
}

func (r *countingRepo) CreateUser(ctx context.Context, u User) error {
	r.creates++
	return r.Repository.CreateUser(ctx, u)
}

func newTestApp(t *testing.T) (*fiber.App, *countingRepo) {
	t.Helper()
	provider := identity.NewMemoryProvider("secret")
	repo := &countingRepo{Repository: NewMemoryRepository()}
	h := NewHandler(NewService(provider, repo, logging.Discard()))

	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler(logging.Discard())})
	authn := middleware.Authenticate(identity.NewAuthenticator(provider))
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/logout", authn, h.Logout)
	app.Get("/auth/user", authn, h.Me)
	app.Put("/users/profile", authn, h.UpdateProfile)
	return app, repo
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

func TestRegisterEndpoint(t *testing.T) {
	app, repo := newTestApp(t)

	status, env := call(t, app, fiber.MethodPost, "/auth/register", "",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"hunter22","country":"UK"}`)
	if status != fiber.StatusCreated || !env.Success {
		t.Fatalf("expected 201 success, got %d %+v", status, env)
	}
	var data AuthResult
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.ID == "" || data.Session == nil || data.Session.AccessToken == "" {
		t.Fatalf("expected user and session, got %+v", data)
	}
	if repo.creates != 1 {
		t.Fatalf("expected one users row, got %d", repo.creates)
	}
}

func TestRegisterMissingFieldsNeverReachesStore(t *testing.T) {
	app, repo := newTestApp(t)

	status, env := call(t, app, fiber.MethodPost, "/auth/register", "", `{"email":"ada@example.com","password":"hunter22"}`)
	if status != fiber.StatusBadRequest || env.Success || env.Message != "Missing required fields" {
		t.Fatalf("expected 400 missing fields, got %d %+v", status, env)
	}
	if repo.creates != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	app, _ := newTestApp(t)
	call(t, app, fiber.MethodPost, "/auth/register", "",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"hunter22","country":"UK"}`)

	status, env := call(t, app, fiber.MethodPost, "/auth/login", "", `{"email":"ada@example.com","password":"bad"}`)
	if status != fiber.StatusUnauthorized || env.Message != "Invalid credentials" {
		t.Fatalf("expected 401 invalid credentials, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/auth/login", "", `{"email":"ada@example.com","password":"hunter22"}`)
	if status != fiber.StatusOK || env.Message != "Login successful" {
		t.Fatalf("expected login success, got %d %+v", status, env)
	}
	var data AuthResult
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	token := data.Session.AccessToken

	status, env = call(t, app, fiber.MethodGet, "/auth/user", token, "")
	if status != fiber.StatusOK || !env.Success {
		t.Fatalf("expected account view, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/auth/logout", token, "")
	if status != fiber.StatusOK || env.Message != "Logged out successfully" {
		t.Fatalf("expected logout, got %d %+v", status, env)
	}

	status, _ = call(t, app, fiber.MethodGet, "/auth/user", token, "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", status)
	}
}

func TestProtectedRouteWithoutBearer(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := call(t, app, fiber.MethodPut, "/users/profile", "", `{"bio":"x"}`)
	if status != fiber.StatusUnauthorized || env.Success || env.Message != "Unauthorized" {
		t.Fatalf("expected 401 envelope, got %d %+v", status, env)
	}
}
