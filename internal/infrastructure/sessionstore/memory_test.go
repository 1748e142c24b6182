package sessionstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared contract against any Store.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, map[string]string{
		KeyAccessToken:     "access-1",
		KeyRefreshToken:    "refresh-1",
		KeyUserEmail:       "analyst@example.com",
		KeyIsAuthenticated: "true",
	}))

	v, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "access-1", v)

	require.NoError(t, store.Set(ctx, map[string]string{KeyAccessToken: "access-2"}))
	v, _, err = store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-2", v)

	v, _, err = store.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", v)

	assert.ErrorIs(t, store.Set(ctx, map[string]string{"theme": "dark"}), ErrUnknownKey)

	require.NoError(t, store.Clear(ctx))
	for _, k := range Keys {
		_, ok, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}

	require.NoError(t, store.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	exerciseStore(t, store)
}
