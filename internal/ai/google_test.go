package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleProviderComplete(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"bonjour"}]}}],"usageMetadata":{"totalTokenCount":4}}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider(context.Background(), "key", srv.URL)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	out, err := p.Complete(context.Background(), ChatRequest{Prompt: "hello", MaxTokens: 100, Temperature: 0.7})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Content != "bonjour" || out.Model != "gemini-1.5-flash" || out.Usage == nil {
		t.Fatalf("unexpected completion %+v", out)
	}
	if !strings.Contains(gotPath, "gemini-1.5-flash:generateContent") {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestGoogleProviderRequiresKey(t *testing.T) {
	if _, err := NewGoogleProvider(context.Background(), "", ""); err != ErrNoKeys {
		t.Fatalf("expected ErrNoKeys, got %v", err)
	}
}
