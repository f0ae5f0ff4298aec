package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"

	"github.com/trendtactics/academy-api/internal/apperr"
)

// Options are the caller's generation knobs. Zero values take defaults.
type Options struct {
	MaxTokens   int
	Temperature float64
	Extra       map[string]any
}

// ChatInput is a chat request as received.
type ChatInput struct {
	Prompt   string
	Provider string
	Model    string
	Options  Options
}

// AnalyzeInput is a content analysis request as received.
type AnalyzeInput struct {
	Content      string
	AnalysisType string
	Provider     string
	Model        string
	Options      Options
}

// ImageInput is an image generation request as received.
type ImageInput struct {
	Prompt   string
	Provider string
	Model    string
	Size     string
	Quality  string
	Style    string
	Extra    map[string]any
}

// Service routes AI requests to the named provider.
type Service struct {
	chat   map[string]ChatProvider
	images map[string]ImageProvider
	logger *slog.Logger
}

// NewService builds the AI service over the configured providers, keyed by
// provider name.
func NewService(chat map[string]ChatProvider, images map[string]ImageProvider, logger *slog.Logger) *Service {
	return &Service{chat: chat, images: images, logger: logger}
}

// Chat runs one completion. The provider defaults to openrouter.
func (s *Service) Chat(ctx context.Context, in ChatInput) (Completion, error) {
	name, provider, err := s.chatProvider(in.Provider)
	if err != nil {
		return Completion{}, err
	}
	out, err := provider.Complete(ctx, chatRequest(in.Prompt, in.Model, in.Options, defaultChatTemperature))
	if err != nil {
		return Completion{}, s.classify(name, err, "AI service error")
	}
	return out, nil
}

// Analyze asks the provider for a JSON analysis of content. An answer that
// is not JSON is wrapped as {result: <text>}.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (Analysis, error) {
	name, provider, err := s.chatProvider(in.Provider)
	if err != nil {
		return Analysis{}, err
	}
	prompt := AnalysisPrompt(in.Content, in.AnalysisType)
	out, err := provider.Complete(ctx, chatRequest(prompt, in.Model, in.Options, analysisTemperature))
	if err != nil {
		return Analysis{}, s.classify(name, err, "AI content analysis error")
	}

	var result any
	if err := json.Unmarshal([]byte(out.Content), &result); err != nil {
		result = map[string]any{"result": out.Content}
	}
	return Analysis{AnalysisType: in.AnalysisType, Result: result, Model: out.Model, Usage: out.Usage}, nil
}

// Image generates one image. The provider defaults to openai.
func (s *Service) Image(ctx context.Context, in ImageInput) (Image, error) {
	name := strings.ToLower(in.Provider)
	if name == "" {
		name = "openai"
	}
	provider, ok := s.images[name]
	if !ok {
		return Image{}, apperr.BadRequest("Unsupported provider for image generation")
	}
	out, err := provider.GenerateImage(ctx, ImageRequest{
		Prompt:  in.Prompt,
		Model:   in.Model,
		Size:    in.Size,
		Quality: in.Quality,
		Style:   in.Style,
		Extra:   in.Extra,
	})
	if err != nil {
		return Image{}, s.classify(name, err, "Image generation error")
	}
	return out, nil
}

func (s *Service) chatProvider(requested string) (string, ChatProvider, error) {
	name := strings.ToLower(requested)
	if name == "" {
		name = "openrouter"
	}
	provider, ok := s.chat[name]
	if !ok {
		return "", nil, apperr.BadRequest("Unsupported provider")
	}
	return name, provider, nil
}

// classify turns a provider failure into a service error whose message
// names the upstream status but never its body.
func (s *Service) classify(provider string, err error, fallback string) error {
	s.logger.Error("ai provider call failed", slog.String("provider", provider), slog.Any("error", err))

	var upstream *UpstreamError
	switch {
	case errors.As(err, &upstream):
		return apperr.Service(fmt.Sprintf("AI API error: %d", upstream.Status), err)
	case errors.Is(err, ErrNoKeys):
		return apperr.Service(ErrNoKeys.Error(), err)
	case errors.Is(err, ErrBadFormat):
		return apperr.Service(ErrBadFormat.Error(), err)
	default:
		return apperr.Service(fallback, err)
	}
}

func chatRequest(prompt, model string, opts Options, temperature float64) ChatRequest {
	req := ChatRequest{
		Prompt:      prompt,
		Model:       model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Extra:       opts.Extra,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = temperature
	}
	return req
}
