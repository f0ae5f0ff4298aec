package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/trendtactics/academy-api/internal/apperr"
	"github.com/trendtactics/academy-api/internal/identity"
)

const (
	identityLocal = "identity"
	tokenLocal    = "access_token"
)

// Authenticate resolves the bearer credential of every request through auth
// and stores the Identity for the handlers behind it.
func Authenticate(auth *identity.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, token, err := auth.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(identityLocal, ident)
		c.Locals(tokenLocal, token)
		return c.Next()
	}
}

// IdentityFrom returns the Identity stored by Authenticate.
func IdentityFrom(c *fiber.Ctx) (identity.Identity, bool) {
	ident, ok := c.Locals(identityLocal).(identity.Identity)
	return ident, ok
}

// AccessTokenFrom returns the bearer token stored by Authenticate.
func AccessTokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocal).(string)
	return token
}

// statusOf predicts the status the error handler will write for err.
func statusOf(err error) int {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Kind.Status()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return http.StatusInternalServerError
}
