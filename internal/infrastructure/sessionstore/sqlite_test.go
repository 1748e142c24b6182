package sessionstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(SQLiteConfig{Path: path, LogLevel: "warn"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newSQLiteStore(t, filepath.Join(t.TempDir(), "session.db"))
	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(SQLiteConfig{Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, map[string]string{KeyAccessToken: "persisted"}))
	require.NoError(t, first.Close())

	second := newSQLiteStore(t, path)
	v, ok, err := second.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestSQLiteStore_Tracing(t *testing.T) {
	store, err := NewSQLiteStore(SQLiteConfig{
		Path:    filepath.Join(t.TempDir(), "traced.db"),
		Tracing: true,
	}, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), map[string]string{KeyUserEmail: "a@b.io"}))
}
