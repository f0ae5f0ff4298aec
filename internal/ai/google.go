package ai

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GoogleProvider answers chat requests with Gemini.
type GoogleProvider struct {
	client *genai.Client
	model  string
}

// NewGoogleProvider builds a Gemini client. baseURL overrides the API root
// when non-empty.
func NewGoogleProvider(ctx context.Context, apiKey, baseURL string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, ErrNoKeys
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GoogleProvider{client: client, model: "gemini-1.5-flash"}, nil
}

func (p *GoogleProvider) Complete(ctx context.Context, req ChatRequest) (Completion, error) {
	model := cmp.Or(req.Model, p.model)
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return Completion{}, &UpstreamError{Status: apiErr.Code, Body: apiErr.Message}
		}
		return Completion{}, fmt.Errorf("google request: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return Completion{}, ErrBadFormat
	}
	var usage any
	if resp.UsageMetadata != nil {
		usage = resp.UsageMetadata
	}
	return Completion{Content: text, Model: model, Usage: usage}, nil
}
