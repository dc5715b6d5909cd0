package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingFileIsEmpty", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))

		v, ok, err := s.Get(ctx, "theme")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
		require.NoError(t, s.Delete(ctx, "theme"))
	})

	t.Run("SetSurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.yaml")
		require.NoError(t, NewFileStore(path).Set(ctx, "theme", "dark"))

		v, ok, err := NewFileStore(path).Get(ctx, "theme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "dark", v)
	})

	t.Run("Delete", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
		require.NoError(t, s.Set(ctx, "session", "token"))
		require.NoError(t, s.Set(ctx, "theme", "light"))
		require.NoError(t, s.Delete(ctx, "session"))

		_, ok, err := s.Get(ctx, "session")
		require.NoError(t, err)
		assert.False(t, ok)

		v, _, err := s.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "light", v)
	})

	t.Run("CorruptFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.yaml")
		require.NoError(t, os.WriteFile(path, []byte("theme: [dark"), 0o600))

		_, _, err := NewFileStore(path).Get(ctx, "theme")
		require.Error(t, err)
	})
}
