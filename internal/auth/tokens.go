package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind selects the expiry policy applied when a token is minted.
// Access and refresh tokens are structurally identical.
type TokenKind int

const (
	// TokenAccess is the short-lived session token.
	TokenAccess TokenKind = iota
	// TokenRefresh is the long-lived token accepted only by the refresh flow.
	TokenRefresh
)

// Claims is the minimal identity payload embedded in every session token.
// No issuer or audience claims are used.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies stateless session tokens. There is no
// server-side revocation; logout is a client-side discard.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures TokenService behavior.
type TokenOption func(*TokenService)

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewTokenService constructs a TokenService with the given signing key and
// per-kind lifetimes.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	svc := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Issue signs the identity claim with an expiry of now plus the fixed
// duration for kind. The output is an opaque signed string.
func (s *TokenService) Issue(id int64, username, email string, kind TokenKind) (string, error) {
	ttl := s.accessTTL
	if kind == TokenRefresh {
		ttl = s.refreshTTL
	}
	now := s.now().UTC()
	claims := Claims{
		ID:       id,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the original claim.
// An elapsed expiry yields ErrTokenExpired; every other failure, including a
// wrong signing method, yields ErrTokenInvalid.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
