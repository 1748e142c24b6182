// Package sessionstore persists the session bootstrap keys across restarts.
package sessionstore

import (
	"context"
	"errors"
)

// Persisted keys. Clear removes all of them in one operation.
const (
	KeyAccessToken     = "accessToken"
	KeyRefreshToken    = "refreshToken"
	KeyUserEmail       = "userEmail"
	KeyIsAuthenticated = "isAuthenticated"
)

// Keys lists every key owned by the session.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUserEmail, KeyIsAuthenticated}

// ErrUnknownKey is returned when a key outside Keys is written.
var ErrUnknownKey = errors.New("sessionstore: unknown key")

// Store holds the persisted session keys.
// Get returns "" and false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context) error
	Close() error
}

func checkKeys(values map[string]string) error {
	for k := range values {
		if !isKnown(k) {
			return ErrUnknownKey
		}
	}
	return nil
}

func isKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
