package course

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

func newTestApp(t *testing.T) (*fiber.App, *MemoryRepository, string) {
	t.Helper()
	provider := identity.NewMemoryProvider("secret")
	if _, _, err := provider.SignUp(context.Background(), identity.SignUpRequest{Email: "ada@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	_, session, err := provider.SignIn(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	repo := NewMemoryRepository()
	h := NewHandler(NewService(repo, logging.Discard()))
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler(logging.Discard())})
	authn := middleware.Authenticate(identity.NewAuthenticator(provider))
	app.Get("/courses", h.List)
	app.Get("/courses/detail", h.Detail)
	app.Post("/courses/enroll", authn, h.Enroll)
	app.Get("/courses/enrollments", authn, h.Enrollments)
	app.Post("/courses/progress", authn, h.Progress)
	return app, repo, session.AccessToken
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

func TestListClampsLimit(t *testing.T) {
	app, repo, _ := newTestApp(t)
	repo.Seed(Course{Title: "Go Basics", IsPublished: true}, nil)

	status, env := call(t, app, fiber.MethodGet, "/courses?limit=1000&offset=-5", "", "")
	if status != fiber.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	var result ListResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	want := Pagination{Limit: MaxLimit, Offset: 0, Total: 1, HasMore: false}
	if result.Pagination != want || len(result.Courses) != 1 {
		t.Fatalf("expected %+v with one course, got %+v", want, result)
	}
}

func TestDetailEndpoint(t *testing.T) {
	app, repo, _ := newTestApp(t)
	c := repo.Seed(Course{Title: "Go Basics", IsPublished: true}, nil)

	if status, env := call(t, app, fiber.MethodGet, "/courses/detail", "", ""); status != fiber.StatusBadRequest || env.Message != "Course ID is required" {
		t.Fatalf("expected 400 without id, got %d %+v", status, env)
	}
	if status, env := call(t, app, fiber.MethodGet, "/courses/detail?id=nope", "", ""); status != fiber.StatusNotFound || env.Message != "Course not found" {
		t.Fatalf("expected 404, got %d %+v", status, env)
	}
	if status, _ := call(t, app, fiber.MethodGet, "/courses/detail?id="+c.ID, "", ""); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app, repo, token := newTestApp(t)
	c := repo.Seed(Course{Title: "Go Basics", IsPublished: true}, nil)
	body := `{"courseId":"` + c.ID + `"}`

	status, env := call(t, app, fiber.MethodPost, "/courses/enroll", token, body)
	if status != fiber.StatusCreated || env.Message != "Successfully enrolled in course" {
		t.Fatalf("expected 201, got %d %+v", status, env)
	}
	var e Enrollment
	if err := json.Unmarshal(env.Data, &e); err != nil {
		t.Fatalf("decode enrollment: %v", err)
	}
	if e.Progress != 0 || e.CourseID != c.ID {
		t.Fatalf("unexpected enrollment: %+v", e)
	}

	status, env = call(t, app, fiber.MethodPost, "/courses/enroll", token, body)
	if status != fiber.StatusBadRequest || env.Success || env.Message != "Already enrolled in this course" {
		t.Fatalf("expected conflict on second enroll, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/courses/enroll", token, `{}`)
	if status != fiber.StatusBadRequest || env.Message != "Course ID is required" {
		t.Fatalf("expected missing course id, got %d %+v", status, env)
	}
}

func TestEnrollRequiresAuth(t *testing.T) {
	app, _, _ := newTestApp(t)
	status, env := call(t, app, fiber.MethodPost, "/courses/enroll", "", `{"courseId":"c1"}`)
	if status != fiber.StatusUnauthorized || env.Success {
		t.Fatalf("expected 401, got %d %+v", status, env)
	}
}

func TestProgressEndpoint(t *testing.T) {
	app, repo, token := newTestApp(t)
	c := repo.Seed(Course{Title: "Go Basics", IsPublished: true}, nil)
	_, env := call(t, app, fiber.MethodPost, "/courses/enroll", token, `{"courseId":"`+c.ID+`"}`)
	var e Enrollment
	if err := json.Unmarshal(env.Data, &e); err != nil {
		t.Fatalf("decode enrollment: %v", err)
	}

	status, env := call(t, app, fiber.MethodPost, "/courses/progress", token, `{"enrollmentId":"`+e.ID+`"}`)
	if status != fiber.StatusBadRequest || env.Message != "Enrollment ID and progress are required" {
		t.Fatalf("expected missing progress, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/courses/progress", token, `{"enrollmentId":"`+e.ID+`","progress":0}`)
	if status != fiber.StatusOK || env.Message != "Progress updated successfully" {
		t.Fatalf("expected zero progress to be accepted, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/courses/progress", token, `{"enrollmentId":"`+e.ID+`","progress":150}`)
	if status != fiber.StatusBadRequest || env.Message != "Progress must be between 0 and 100" {
		t.Fatalf("expected range error, got %d %+v", status, env)
	}

	status, env = call(t, app, fiber.MethodPost, "/courses/progress", token, `{"enrollmentId":"`+e.ID+`","progress":100}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	var result ProgressResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if result.Progress != 100 || result.CompletionDate == nil {
		t.Fatalf("expected completion, got %+v", result)
	}

	status, env = call(t, app, fiber.MethodGet, "/courses/enrollments", token, "")
	if status != fiber.StatusOK || !strings.Contains(string(env.Data), "Go Basics") {
		t.Fatalf("expected enrollment list with course, got %d %s", status, env.Data)
	}
}
