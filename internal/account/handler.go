package account

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/middleware"
	"github.com/trendtactics/academy-api/internal/respond"
	"github.com/trendtactics/academy-api/internal/validate"
)

// Handler exposes the auth and profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Country     string `json:"country" validate:"required"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Bio         *string `json:"bio"`
	Phone       *string `json:"phone"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
	Avatar      *string `json:"avatar"`
	Timezone    *string `json:"timezone"`
}

type preferencesRequest struct {
	NotificationEmails     *bool   `json:"notificationEmails"`
	NewsletterSubscription *bool   `json:"newsletterSubscription"`
	PrivacyLevel           *string `json:"privacyLevel"`
	Theme                  *string `json:"theme"`
	Language               *string `json:"language"`
	Timezone               *string `json:"timezone"`
}

type statsRequest struct {
	TotalTime       *int `json:"totalTime" validate:"omitnil,min=0"`
	CompletedCourse bool `json:"completedCourse"`
	Activity        bool `json:"activity"`
}

// Register creates the auth user and its users row.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parse(c, &req, "Missing required fields"); err != nil {
		return err
	}
	result, err := h.service.Register(c.UserContext(), RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Country:     req.Country,
		City:        req.City,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
	})
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusCreated, "Registration successful. Please check your email for verification.", result)
}

// Login exchanges email and password for a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parse(c, &req, "Email and password are required"); err != nil {
		return err
	}
	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Login successful", result)
}

// Logout revokes the presented session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), middleware.AccessTokenFrom(c)); err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the caller's account with all related records.
func (h *Handler) Me(c *fiber.Ctx) error {
	profile, err := h.service.Account(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, profile)
}

// Profile returns the caller's profile.
func (h *Handler) Profile(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, profile)
}

// UpdateProfile applies the provided profile fields.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parse(c, &req, ""); err != nil {
		return err
	}
	user, err := h.service.UpdateProfile(c.UserContext(), userID(c), ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Bio:         req.Bio,
		Phone:       req.Phone,
		City:        req.City,
		Country:     req.Country,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Avatar:      req.Avatar,
		Timezone:    req.Timezone,
	})
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Profile updated successfully", user)
}

// Preferences returns the caller's preferences.
func (h *Handler) Preferences(c *fiber.Ctx) error {
	prefs, err := h.service.Preferences(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, prefs)
}

// UpdatePreferences upserts the provided preference fields.
func (h *Handler) UpdatePreferences(c *fiber.Ctx) error {
	var req preferencesRequest
	if err := parse(c, &req, ""); err != nil {
		return err
	}
	prefs, err := h.service.UpdatePreferences(c.UserContext(), PreferencesUpdate{
		UserID:                 userID(c),
		NotificationEmails:     req.NotificationEmails,
		NewsletterSubscription: req.NewsletterSubscription,
		PrivacyLevel:           req.PrivacyLevel,
		Theme:                  req.Theme,
		Language:               req.Language,
		Timezone:               req.Timezone,
	})
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Preferences updated successfully", prefs)
}

// LearningStats returns the caller's learning statistics.
func (h *Handler) LearningStats(c *fiber.Ctx) error {
	stats, err := h.service.LearningStats(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, stats)
}

// UpdateLearningStats records one learning activity.
func (h *Handler) UpdateLearningStats(c *fiber.Ctx) error {
	var req statsRequest
	if err := parse(c, &req, ""); err != nil {
		return err
	}
	stats, err := h.service.RecordActivity(c.UserContext(), userID(c), StatsInput{
		TotalTime:       req.TotalTime,
		CompletedCourse: req.CompletedCourse,
		Activity:        req.Activity,
	})
	if err != nil {
		return err
	}
	return respond.Message(c, http.StatusOK, "Learning stats updated successfully", stats)
}

func parse(c *fiber.Ctx, req any, message string) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return validate.Struct(req, message)
}

func userID(c *fiber.Ctx) string {
	ident, _ := middleware.IdentityFrom(c)
	return ident.ID
}
