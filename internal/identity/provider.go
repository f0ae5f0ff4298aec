package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned when an email/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer credential is unknown, revoked or expired.
	ErrInvalidToken = errors.New("invalid authentication token")
	// ErrEmailTaken is returned by sign-up when the email is already registered.
	ErrEmailTaken = errors.New("user already registered")
)

// Provider is the managed auth service. Implementations must be safe for
// concurrent use; each call is one outbound exchange with no retries.
type Provider interface {
	// SignUp registers a user. The session is nil when the provider requires
	// email confirmation before issuing tokens.
	SignUp(ctx context.Context, req SignUpRequest) (Identity, *Session, error)
	SignIn(ctx context.Context, email, password string) (Identity, Session, error)
	// SignOut revokes the session the access token belongs to.
	SignOut(ctx context.Context, accessToken string) error
	UserFromToken(ctx context.Context, accessToken string) (Identity, error)
}
