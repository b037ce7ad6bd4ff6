// Package auth issues and verifies the signed identity tokens that gate
// every protected route.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"storefront-backend/models"
)

// ErrInvalidToken is wrapped around every verification failure: missing
// token, malformed token, bad signature, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity fields carried inside a token.
type Claims struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.StandardClaims
}

// TokenService signs and verifies HS256 tokens with a process-wide secret.
// Compromise of the secret invalidates the trust of all tokens, so it is
// injected from config, never hardcoded.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates an access token for user, valid for the configured TTL.
func (s *TokenService) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and validity and returns the decoded claims.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: no token provided", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
