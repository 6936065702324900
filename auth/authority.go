package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"trendmoni/models"
)

// Identity is the stable identity a signed-in session is keyed by.
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

type claims struct {
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"anon,omitempty"`
	jwt.RegisteredClaims
}

type credential struct {
	userID string
	email  string
	hash   []byte
}

// Authority issues and verifies session tokens and holds email/password
// credentials. It is safe for concurrent use.
type Authority struct {
	issuer   string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	hashCost int

	mu          sync.RWMutex
	credentials map[string]credential
}

// Option customises an Authority.
type Option func(*Authority)

// WithClock overrides the time source used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

// WithHashCost overrides the bcrypt cost used for new credentials.
func WithHashCost(cost int) Option {
	return func(a *Authority) { a.hashCost = cost }
}

// NewAuthority creates an Authority signing HS256 tokens for issuer.
func NewAuthority(issuer, secret string, ttl time.Duration, opts ...Option) *Authority {
	a := &Authority{
		issuer:      issuer,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		hashCost:    bcrypt.DefaultCost,
		credentials: make(map[string]credential),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAnonymous mints a fresh anonymous identity.
func (a *Authority) NewAnonymous() Identity {
	return Identity{UserID: uuid.NewString(), Anonymous: true}
}

// IssueToken signs a token for id.
func (a *Authority) IssueToken(id Identity) (string, error) {
	if id.UserID == "" {
		return "", &models.AuthError{Op: "issue-token", Reason: "missing user id"}
	}
	now := a.now()
	c := claims{
		Email:     id.Email,
		Anonymous: id.Anonymous,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secret)
	if err != nil {
		return "", &models.AuthError{Op: "issue-token", Reason: "signing failed", Err: err}
	}
	return signed, nil
}

// VerifyToken validates the signature, issuer and expiry of token and
// returns the identity it carries.
func (a *Authority) VerifyToken(token string) (Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Identity{}, &models.AuthError{Op: "verify-token", Reason: "missing token"}
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "token expired"
		}
		return Identity{}, &models.AuthError{Op: "verify-token", Reason: reason, Err: err}
	}
	if c.Subject == "" {
		return Identity{}, &models.AuthError{Op: "verify-token", Reason: "token has no subject"}
	}
	return Identity{UserID: c.Subject, Email: c.Email, Anonymous: c.Anonymous}, nil
}

// Register stores a new email/password credential and returns its identity.
// The password must satisfy the composition policy.
func (a *Authority) Register(email, password string) (Identity, error) {
	addr, err := normaliseEmail(email)
	if err != nil {
		return Identity{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return Identity{}, &models.AuthError{Op: "register", Reason: "could not hash password", Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.credentials[addr]; exists {
		return Identity{}, &models.AuthError{Op: "register", Reason: "email already registered"}
	}
	cred := credential{userID: uuid.NewString(), email: addr, hash: hash}
	a.credentials[addr] = cred
	return Identity{UserID: cred.userID, Email: addr}, nil
}

// Authenticate checks an email/password pair.
func (a *Authority) Authenticate(email, password string) (Identity, error) {
	addr := strings.ToLower(strings.TrimSpace(email))

	a.mu.RLock()
	cred, ok := a.credentials[addr]
	a.mu.RUnlock()
	if !ok {
		return Identity{}, &models.AuthError{Op: "login", Reason: "user does not exist"}
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return Identity{}, &models.AuthError{Op: "login", Reason: "wrong password"}
	}
	return Identity{UserID: cred.userID, Email: cred.email}, nil
}

func normaliseEmail(email string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" {
		return "", &models.InputValidationError{Field: "email", Problems: []string{"is required"}}
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return "", &models.InputValidationError{Field: "email", Problems: []string{fmt.Sprintf("%q is not a valid address", email)}}
	}
	return addr, nil
}
