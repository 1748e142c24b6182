package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestParseUnverified(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := sign(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp), Subject: "u1"},
		UserID:           "u1",
		OrganizationID:   "org-1",
		Email:            "analyst@example.com",
		Role:             "admin",
	})

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, "admin", claims.Role)

	got, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestParseUnverified_ExpiredTokenStillDecodes(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	token := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
	assert.Zero(t, RemainingTTL(token, time.Now()))
}

func TestRemainingTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	token := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute))})
	assert.Equal(t, 15*time.Minute, RemainingTTL(token, now))
}

func TestInvalidTokens(t *testing.T) {
	_, err := ParseUnverified("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ExpiresAt(sign(t, jwt.RegisteredClaims{Subject: "u1"}))
	assert.ErrorIs(t, err, ErrNoExpiry)
	assert.Zero(t, RemainingTTL("garbage", time.Now()))
}
