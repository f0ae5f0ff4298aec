package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = time.Hour

type memoryAccount struct {
	identity     Identity
	passwordHash []byte
	tokenVersion int
}

// MemoryProvider is a self-contained auth provider used in development when
// Supabase is not configured, and in tests. Access tokens are HS256 JWTs;
// signing out bumps the account's token version, revoking every token
// issued before it.
type MemoryProvider struct {
	mu      sync.RWMutex
	byEmail map[string]*memoryAccount
	byID    map[string]*memoryAccount
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryProvider builds an empty provider signing tokens with secret.
func NewMemoryProvider(secret string) *MemoryProvider {
	return &MemoryProvider{
		byEmail: make(map[string]*memoryAccount),
		byID:    make(map[string]*memoryAccount),
		secret:  []byte(secret),
		ttl:     defaultSessionTTL,
		now:     time.Now,
	}
}

func (p *MemoryProvider) SignUp(_ context.Context, req SignUpRequest) (Identity, *Session, error) {
	email := normalizeEmail(req.Email)
	if len(req.Password) < 6 {
		return Identity{}, nil, &RejectedError{Reason: "Password should be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byEmail[email]; exists {
		return Identity{}, nil, &RejectedError{Reason: "User already registered", Err: ErrEmailTaken}
	}

	acct := &memoryAccount{
		identity: Identity{
			ID:            uuid.NewString(),
			Email:         email,
			Role:          "authenticated",
			EmailVerified: true,
			Metadata:      req.Metadata,
			CreatedAt:     p.now().UTC(),
		},
		passwordHash: hash,
	}
	p.byEmail[email] = acct
	p.byID[acct.identity.ID] = acct

	session, err := p.issue(acct)
	if err != nil {
		return Identity{}, nil, err
	}
	return acct.identity, &session, nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (Identity, Session, error) {
	p.mu.RLock()
	acct, ok := p.byEmail[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return Identity{}, Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return Identity{}, Session{}, ErrInvalidCredentials
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	session, err := p.issue(acct)
	if err != nil {
		return Identity{}, Session{}, err
	}
	return acct.identity, session, nil
}

func (p *MemoryProvider) SignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, err := p.verify(accessToken)
	if err != nil {
		return err
	}
	acct.tokenVersion++
	return nil
}

func (p *MemoryProvider) UserFromToken(_ context.Context, accessToken string) (Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	acct, err := p.verify(accessToken)
	if err != nil {
		return Identity{}, err
	}
	return acct.identity, nil
}

// issue must be called with p.mu held.
func (p *MemoryProvider) issue(acct *memoryAccount) (Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	token, err := signHS256(tokenClaims{
		Subject:   acct.identity.ID,
		Email:     acct.identity.Email,
		Version:   acct.tokenVersion,
		IssuedAt:  now.Unix(),
		ExpiresAt: exp.Unix(),
	}, p.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:  token,
		TokenType:    "bearer",
		ExpiresIn:    int(p.ttl.Seconds()),
		ExpiresAt:    exp.Unix(),
		RefreshToken: uuid.NewString(),
	}, nil
}

// verify must be called with p.mu held.
func (p *MemoryProvider) verify(accessToken string) (*memoryAccount, error) {
	claims, err := parseHS256(accessToken, p.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt <= p.now().Unix() {
		return nil, ErrInvalidToken
	}
	acct, ok := p.byID[claims.Subject]
	if !ok || acct.tokenVersion != claims.Version {
		return nil, ErrInvalidToken
	}
	return acct, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
