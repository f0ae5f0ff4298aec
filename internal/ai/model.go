package ai

import (
	"context"
	"errors"
	"fmt"
)

const (
	defaultMaxTokens       = 1000
	defaultChatTemperature = 0.7
	analysisTemperature    = 0.3

	defaultImageSize    = "1024x1024"
	defaultImageQuality = "standard"
	defaultImageStyle   = "vivid"
)

// ChatRequest is one single-turn completion request.
type ChatRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	// Extra is merged into the upstream request body where the provider
	// accepts arbitrary fields.
	Extra map[string]any
}

// Completion is a provider's answer to a ChatRequest.
type Completion struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   any    `json:"usage"`
}

// ImageRequest asks for one generated image.
type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
	Style   string
	Extra   map[string]any
}

// Image is a generated image reference.
type Image struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Size   string `json:"size"`
}

// Analysis is the result of a content analysis.
type Analysis struct {
	AnalysisType string `json:"analysisType"`
	Result       any    `json:"result"`
	Model        string `json:"model"`
	Usage        any    `json:"usage"`
}

// ChatProvider produces text completions.
type ChatProvider interface {
	Complete(ctx context.Context, req ChatRequest) (Completion, error)
}

// ImageProvider produces images.
type ImageProvider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
}

// UpstreamError is a non-2xx answer from a provider. Body stays server-side.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI API error: %d - %s", e.Status, e.Body)
}

// ErrBadFormat is returned when a provider answer lacks the expected content.
var ErrBadFormat = errors.New("Invalid response format from AI API")
