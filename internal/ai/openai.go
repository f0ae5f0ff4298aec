package ai

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/ai")

const (
	openRouterURL = "https://openrouter.ai/api/v1"
	openAIURL     = "https://api.openai.com/v1"
)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage any `json:"usage"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// OpenAICompatible calls chat-completions and image-generation endpoints
// shaped like OpenAI's. OpenRouter serves the same shapes.
type OpenAICompatible struct {
	name       string
	baseURL    string
	keys       *KeyRing
	headers    map[string]string
	chatModel  string
	imageModel string
	timeout    time.Duration
}

// NewOpenRouter builds the OpenRouter provider. Keys rotate per request.
func NewOpenRouter(keys *KeyRing, referer string, timeout time.Duration) *OpenAICompatible {
	return &OpenAICompatible{
		name:    "openrouter",
		baseURL: openRouterURL,
		keys:    keys,
		headers: map[string]string{
			"HTTP-Referer": referer,
			"X-Title":      "Trendtactics Digital Tools",
		},
		chatModel:  "mistralai/mistral-small",
		imageModel: "openai/dall-e-3",
		timeout:    timeout,
	}
}

// NewOpenAI builds the OpenAI provider.
func NewOpenAI(key string, timeout time.Duration) *OpenAICompatible {
	return &OpenAICompatible{
		name:       "openai",
		baseURL:    openAIURL,
		keys:       NewKeyRing(key),
		chatModel:  "gpt-3.5-turbo",
		imageModel: "dall-e-3",
		timeout:    timeout,
	}
}

// WithBaseURL points the provider at another API root.
func (p *OpenAICompatible) WithBaseURL(url string) *OpenAICompatible {
	p.baseURL = url
	return p
}

func (p *OpenAICompatible) Complete(ctx context.Context, req ChatRequest) (Completion, error) {
	model := cmp.Or(req.Model, p.chatModel)
	body := map[string]any{
		"model":       model,
		"messages":    []map[string]string{{"role": "user", "content": req.Prompt}},
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	maps.Copy(body, req.Extra)

	var out chatResponse
	if err := p.post(ctx, "/chat/completions", body, &out); err != nil {
		return Completion{}, err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Completion{}, ErrBadFormat
	}
	return Completion{Content: out.Choices[0].Message.Content, Model: model, Usage: out.Usage}, nil
}

func (p *OpenAICompatible) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	model := cmp.Or(req.Model, p.imageModel)
	size := cmp.Or(req.Size, defaultImageSize)
	body := map[string]any{
		"prompt":          req.Prompt,
		"model":           model,
		"n":               1,
		"size":            size,
		"quality":         cmp.Or(req.Quality, defaultImageQuality),
		"style":           cmp.Or(req.Style, defaultImageStyle),
		"response_format": "url",
	}
	maps.Copy(body, req.Extra)

	var out imageResponse
	if err := p.post(ctx, "/images/generations", body, &out); err != nil {
		return Image{}, err
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return Image{}, ErrBadFormat
	}
	return Image{URL: out.Data[0].URL, Prompt: req.Prompt, Model: model, Size: size}, nil
}

// post sends one JSON request. Nothing is retried.
func (p *OpenAICompatible) post(ctx context.Context, path string, body, out any) error {
	_, span := tracer.Start(ctx, p.name+" POST "+path)
	defer span.End()

	key, err := p.keys.Next()
	if err != nil {
		return err
	}

	agent := fiber.Post(p.baseURL + path)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+key)
	for k, v := range p.headers {
		agent.Set(k, v)
	}
	agent.JSONEncoder(json.Marshal).JSON(body).Timeout(p.timeout)

	status, resp, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		return fmt.Errorf("%s request: %w", p.name, err)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		err := &UpstreamError{Status: status, Body: string(resp)}
		span.RecordError(err)
		return err
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return nil
}
