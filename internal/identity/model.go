package identity

import "time"

// Identity is the user record the auth provider resolves a credential to.
// It lives for one request and is never cached.
type Identity struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Role          string         `json:"role,omitempty"`
	EmailVerified bool           `json:"email_verified"`
	Metadata      map[string]any `json:"user_metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Session is the credential pair issued on sign-up or sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SignUpRequest carries the provider sign-up inputs. Metadata is stored with
// the auth user and echoed back in Identity.Metadata.
type SignUpRequest struct {
	Email    string
	Password string
	Metadata map[string]any
}
