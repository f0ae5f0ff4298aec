package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONIncludesApp(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "debug", "json", "academy")
	logger.Debug("hello", "k", "v")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if line["app"] != "academy" || line["msg"] != "hello" || line["k"] != "v" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNewTextFormatAndLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "not-a-level", "text", "")
	logger.Debug("dropped")
	logger.Info("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug line should be filtered at the default info level: %q", out)
	}
	if !strings.Contains(out, "msg=kept") {
		t.Fatalf("expected text handler output, got %q", out)
	}
}
