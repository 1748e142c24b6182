// Package auth reads claims from the bearer tokens issued by the auth backend.
// Signatures are not checked here; the backend verifies every request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoExpiry     = errors.New("token has no exp claim")
)

// Claims are the access-token claims the dashboard reads.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"userId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
}

var parser = jwt.NewParser()

// ParseUnverified decodes the claims of token without checking its signature.
func ParseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of token.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := ParseUnverified(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// RemainingTTL returns how long token stays valid after now, or 0.
func RemainingTTL(token string, now time.Time) time.Duration {
	exp, err := ExpiresAt(token)
	if err != nil {
		return 0
	}
	if ttl := exp.Sub(now); ttl > 0 {
		return ttl
	}
	return 0
}
