package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/trendtactics/academy-api/internal/identity")

// RejectedError means the provider answered and refused the request. Reason
// is the provider's human-readable explanation, safe to show to clients.
type RejectedError struct {
	Reason string
	Err    error
}

func (e *RejectedError) Error() string { return e.Reason }

func (e *RejectedError) Unwrap() error { return e.Err }

// SupabaseProvider resolves credentials through GoTrue.
type SupabaseProvider struct {
	auth gotrue.Client
}

// NewSupabaseProvider wraps the auth client of a configured Supabase client.
func NewSupabaseProvider(auth gotrue.Client) *SupabaseProvider {
	return &SupabaseProvider{auth: auth}
}

func (p *SupabaseProvider) SignUp(ctx context.Context, req SignUpRequest) (Identity, *Session, error) {
	_, span := tracer.Start(ctx, "Supabase.Auth.SignUp")
	defer span.End()

	resp, err := p.auth.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data:     req.Metadata,
	})
	if err != nil {
		span.RecordError(err)
		if rej := rejection(err, "Registration failed"); rej != nil {
			return Identity{}, nil, rej
		}
		return Identity{}, nil, fmt.Errorf("supabase signup: %w", err)
	}

	var session *Session
	if resp.Session.AccessToken != "" {
		s := fromSession(resp.Session)
		session = &s
	}
	return fromUser(resp.User), session, nil
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (Identity, Session, error) {
	_, span := tracer.Start(ctx, "Supabase.Auth.SignIn")
	defer span.End()

	resp, err := p.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		span.RecordError(err)
		return Identity{}, Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return fromUser(resp.Session.User), fromSession(resp.Session), nil
}

func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	_, span := tracer.Start(ctx, "Supabase.Auth.SignOut")
	defer span.End()

	if err := p.auth.WithToken(accessToken).Logout(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("supabase logout: %w", err)
	}
	return nil
}

func (p *SupabaseProvider) UserFromToken(ctx context.Context, accessToken string) (Identity, error) {
	_, span := tracer.Start(ctx, "Supabase.Auth.GetUser")
	defer span.End()

	resp, err := p.auth.WithToken(accessToken).GetUser()
	if err != nil {
		span.RecordError(err)
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return fromUser(resp.User), nil
}

func fromUser(u types.User) Identity {
	return Identity{
		ID:            u.ID.String(),
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: len(u.Identities) > 0,
		Metadata:      u.UserMetadata,
		CreatedAt:     u.CreatedAt,
	}
}

func fromSession(s types.Session) Session {
	return Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
	}
}

// rejection extracts the provider's message from a GoTrue
// "response status code N: {json}" error. It returns nil for transport
// failures, where the provider never answered.
func rejection(err error, fallback string) *RejectedError {
	_, rest, ok := strings.Cut(err.Error(), "response status code ")
	if !ok {
		return nil
	}
	reason := fallback
	if _, body, found := strings.Cut(rest, ": "); found {
		var payload map[string]any
		if json.Unmarshal([]byte(body), &payload) == nil {
			for _, key := range []string{"msg", "message", "error_description", "error"} {
				if s, ok := payload[key].(string); ok && s != "" {
					reason = s
					break
				}
			}
		}
	}
	return &RejectedError{Reason: reason, Err: err}
}
