package functions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/logging"
	"github.com/trendtactics/academy-api/internal/respond"
)

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"send-email": true,
		"quiz2":      true,
		"":           false,
		"../admin":   false,
		"Upper":      false,
		"a/b":        false,
	} {
		if got := ValidName(name); got != want {
			t.Fatalf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInvokeForwardsCallerToken(t *testing.T) {
	var gotPath, gotAuth, gotKey, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sent":true}`))
	}))
	defer srv.Close()

	inv := NewInvoker(srv.URL+"/", "anon", time.Second)
	result, err := inv.Invoke(context.Background(), "send-email", "user-token", []byte(`{"to":"a@b.c"}`))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if m, ok := result.(map[string]any); !ok || m["sent"] != true {
		t.Fatalf("unexpected result %v", result)
	}
	if gotPath != "/functions/v1/send-email" || gotAuth != "Bearer user-token" || gotKey != "anon" || gotBody != `{"to":"a@b.c"}` {
		t.Fatalf("unexpected request path=%q auth=%q apikey=%q body=%q", gotPath, gotAuth, gotKey, gotBody)
	}

	if _, err := inv.Invoke(context.Background(), "send-email", "", nil); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if gotAuth != "Bearer anon" || gotBody != "{}" {
		t.Fatalf("expected anon fallback with empty object, got auth=%q body=%q", gotAuth, gotBody)
	}
}

func TestInvokeErrors(t *testing.T) {
	if _, err := NewInvoker("", "", time.Second).Invoke(context.Background(), "x", "", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewInvoker("http://x", "", time.Second).Invoke(context.Background(), "A!", "", nil); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	var callErr *CallError
	_, err := NewInvoker(srv.URL, "anon", time.Second).Invoke(context.Background(), "x", "", nil)
	if !errors.As(err, &callErr) || callErr.Status != http.StatusBadGateway {
		t.Fatalf("expected CallError 502, got %v", err)
	}
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`plain text`))
	}))
	defer srv.Close()

	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler(logging.Discard())})
	h := NewHandler(NewInvoker(srv.URL, "anon", time.Second), logging.Discard())
	app.Post("/functions/:name", h.Invoke)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"forwarded", "/functions/hello", `{"a":1}`, fiber.StatusOK},
		{"bad name", "/functions/Hello_World", `{}`, fiber.StatusBadRequest},
		{"bad body", "/functions/hello", `{"a":`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			if tc.status == fiber.StatusOK {
				var env struct {
					Success bool `json:"success"`
					Data    any  `json:"data"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !env.Success || env.Data != "plain text" {
					t.Fatalf("unexpected envelope %+v", env)
				}
			}
		})
	}
}
