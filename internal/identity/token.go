package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

var b64 = base64.RawURLEncoding

// tokenClaims are the claims of the access tokens MemoryProvider issues.
type tokenClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	Version   int    `json:"ver"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// signHS256 encodes claims as a compact HS256 JWT.
func signHS256(claims tokenClaims, secret []byte) (string, error) {
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := b64.EncodeToString(header) + "." + b64.EncodeToString(payload)
	return unsigned + "." + b64.EncodeToString(mac(unsigned, secret)), nil
}

// parseHS256 verifies the signature and decodes the claims. Expiry is the
// caller's concern.
func parseHS256(token string, secret []byte) (tokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return tokenClaims{}, errors.New("invalid token format")
	}
	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return tokenClaims{}, errors.New("invalid signature encoding")
	}
	if !hmac.Equal(sig, mac(parts[0]+"."+parts[1], secret)) {
		return tokenClaims{}, errors.New("signature mismatch")
	}
	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		return tokenClaims{}, errors.New("invalid payload encoding")
	}
	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return tokenClaims{}, errors.New("invalid claims json")
	}
	return claims, nil
}

func mac(unsigned string, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(unsigned))
	return h.Sum(nil)
}
