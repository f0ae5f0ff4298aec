package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/trendtactics/academy-api/internal/apperr"
)

const bearerPrefix = "Bearer "

// ErrMissingBearer is returned when the Authorization header is absent or
// does not carry a Bearer credential.
var ErrMissingBearer = errors.New("missing or invalid Authorization header")

// Authenticator turns an Authorization header into an Identity. Every call
// asks the provider; nothing is cached between requests.
type Authenticator struct {
	provider Provider
}

// NewAuthenticator builds an authenticator over provider.
func NewAuthenticator(provider Provider) *Authenticator {
	return &Authenticator{provider: provider}
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	rest, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", ErrMissingBearer
	}
	token := strings.TrimSpace(rest)
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}

// Authenticate resolves header to an Identity and returns the bearer token
// alongside it. Failures are Unauthorized and final.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Identity, string, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Identity{}, "", apperr.Unauthorized("Unauthorized", err)
	}
	ident, err := a.provider.UserFromToken(ctx, token)
	if err != nil {
		return Identity{}, "", apperr.Unauthorized("Invalid authentication token", err)
	}
	return ident, token, nil
}
