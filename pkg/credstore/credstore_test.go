package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/credstore"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

func TestFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("load before save reports not found", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewFile(filepath.Join(t.TempDir(), "creds.json"))

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("save and load roundtrip", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "auth", "creds.json")
		store := credstore.NewFile(path)

		pair := &token.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
		require.NoError(t, store.Save(ctx, pair))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, pair, loaded)
	})

	t.Run("file is owner-only", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds.json")
		store := credstore.NewFile(path)
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "a"}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("corrupt file is treated as absent and removed", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := credstore.NewFile(path)
		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)

		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr), "corrupt file must be removed")
	})

	t.Run("empty pair is treated as absent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

		store := credstore.NewFile(path)
		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("clear removes and is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds.json")
		store := credstore.NewFile(path)
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "a"}))

		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("save overwrites", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewFile(filepath.Join(t.TempDir(), "creds.json"))
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "old"}))
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "new"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "new", loaded.AccessToken)
	})
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty store reports not found", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewMemory()
		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("save and load roundtrip", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewMemory()
		pair := &token.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
		require.NoError(t, store.Save(ctx, pair))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, pair, loaded)
	})

	t.Run("load returns a copy", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewMemory()
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "access"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		loaded.AccessToken = "mutated"

		again, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "access", again.AccessToken)
	})

	t.Run("clear drops the pair", func(t *testing.T) {
		t.Parallel()

		store := credstore.NewMemory()
		require.NoError(t, store.Save(ctx, &token.TokenPair{AccessToken: "access"}))
		require.NoError(t, store.Clear(ctx))

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})
}
