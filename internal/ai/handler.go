package ai

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/respond"
	"github.com/trendtactics/academy-api/internal/validate"
)

// Handler exposes the AI tool endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an AI HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type chatRequestBody struct {
	Prompt   string         `json:"prompt"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Options  map[string]any `json:"options"`
}

type analyzeRequestBody struct {
	Content      string         `json:"content"`
	AnalysisType string         `json:"analysisType"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Options      map[string]any `json:"options"`
}

type imageRequestBody struct {
	Prompt   string         `json:"prompt"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Size     string         `json:"size"`
	Quality  string         `json:"quality"`
	Style    string         `json:"style"`
	Options  map[string]any `json:"options"`
}

// Chat answers a single prompt.
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req chatRequestBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := validate.Field(req.Prompt, "required", "Valid prompt is required"); err != nil {
		return err
	}
	out, err := h.service.Chat(c.UserContext(), ChatInput{
		Prompt:   req.Prompt,
		Provider: req.Provider,
		Model:    req.Model,
		Options:  splitOptions(req.Options),
	})
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, out)
}

// Analyze runs one of the content analyses.
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequestBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := validate.Field(req.Content, "required", "Valid content is required"); err != nil {
		return err
	}
	if !ValidAnalysisType(req.AnalysisType) {
		return apperr.BadRequest("Valid analysisType is required (sentiment, keywords, summary, seo, readability)")
	}
	out, err := h.service.Analyze(c.UserContext(), AnalyzeInput{
		Content:      req.Content,
		AnalysisType: req.AnalysisType,
		Provider:     req.Provider,
		Model:        req.Model,
		Options:      splitOptions(req.Options),
	})
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, out)
}

// Image generates an image from a prompt.
func (h *Handler) Image(c *fiber.Ctx) error {
	var req imageRequestBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := validate.Field(req.Prompt, "required", "Valid prompt is required"); err != nil {
		return err
	}
	out, err := h.service.Image(c.UserContext(), ImageInput{
		Prompt:   req.Prompt,
		Provider: req.Provider,
		Model:    req.Model,
		Size:     req.Size,
		Quality:  req.Quality,
		Style:    req.Style,
		Extra:    req.Options,
	})
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, out)
}

// splitOptions lifts maxTokens and temperature out of the caller's options;
// the rest is forwarded to the provider as-is.
func splitOptions(raw map[string]any) Options {
	var opts Options
	for k, v := range raw {
		switch k {
		case "maxTokens":
			if n, ok := v.(float64); ok {
				opts.MaxTokens = int(n)
			}
		case "temperature":
			if t, ok := v.(float64); ok {
				opts.Temperature = t
			}
		case "generationConfig":
			// Gemini request shape; never forwarded.
		default:
			if opts.Extra == nil {
				opts.Extra = make(map[string]any)
			}
			opts.Extra[k] = v
		}
	}
	return opts
}
