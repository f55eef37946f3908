package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/pkg/session"
)

type testProfile struct {
	Name  string
	Roles []string
}

type unregistered struct{ N int }

func init() {
	session.Register(testProfile{})
}

func newFileStore(t *testing.T) (*session.FileStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewFileStore(t *testing.T) {
	t.Parallel()

	t.Run("requires a directory", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewFileStore("")
		require.ErrorIs(t, err, session.ErrNoDirectory)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "sessions")
		store, err := session.NewFileStore(dir)
		require.NoError(t, err)
		require.Equal(t, dir, store.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})
}

func TestFileStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates empty record file", func(t *testing.T) {
		t.Parallel()

		store, dir := newFileStore(t)
		ctx := context.Background()

		require.NoError(t, store.Create(ctx, "123"))
		_, err := os.Stat(filepath.Join(dir, "session_123"))
		require.NoError(t, err)

		v, err := store.Load(ctx, "123")
		require.NoError(t, err)
		require.Empty(t, v)
	})

	t.Run("keeps existing content", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "123", session.Values{"user": "alice"}))
		require.NoError(t, store.Create(ctx, "123"))

		v, err := store.Load(ctx, "123")
		require.NoError(t, err)
		require.Equal(t, "alice", v["user"])
	})

	t.Run("rejects ids with path separators", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		require.ErrorIs(t, store.Create(context.Background(), "../escape"), session.ErrInvalidID)
		require.ErrorIs(t, store.Create(context.Background(), ""), session.ErrInvalidID)
	})
}

func TestFileStore_LoadSave(t *testing.T) {
	t.Parallel()

	t.Run("missing record returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		_, err := store.Load(context.Background(), "nope")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("round-trips the whole bag", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		ctx := context.Background()

		in := session.Values{"user": "alice", "ratio": 0.5, "admin": true}
		require.NoError(t, store.Save(ctx, "abc", in))

		out, err := store.Load(ctx, "abc")
		require.NoError(t, err)
		require.Equal(t, in, out)
	})

	t.Run("keeps concrete types", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		ctx := context.Background()

		in := session.Values{
			"count":   3,
			"big":     int64(9007199254740993),
			"profile": testProfile{Name: "alice", Roles: []string{"admin"}},
			"tags":    []string{"a", "b"},
		}
		require.NoError(t, store.Save(ctx, "typed", in))

		out, err := store.Load(ctx, "typed")
		require.NoError(t, err)
		require.Equal(t, in, out)

		count, err := session.Value[int](out, "count")
		require.NoError(t, err)
		require.Equal(t, 3, count)

		profile, err := session.Value[testProfile](out, "profile")
		require.NoError(t, err)
		require.Equal(t, "alice", profile.Name)
	})

	t.Run("unregistered type is rejected", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		err := store.Save(context.Background(), "abc", session.Values{"x": unregistered{N: 1}})
		require.ErrorIs(t, err, session.ErrUnencodable)
	})

	t.Run("save replaces previous bag", func(t *testing.T) {
		t.Parallel()

		store, _ := newFileStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "abc", session.Values{"a": "1", "b": "2"}))
		require.NoError(t, store.Save(ctx, "abc", session.Values{"a": "3"}))

		out, err := store.Load(ctx, "abc")
		require.NoError(t, err)
		require.Equal(t, session.Values{"a": "3"}, out)
	})

	t.Run("corrupted record", func(t *testing.T) {
		t.Parallel()

		store, dir := newFileStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session_bad"), []byte("{not json"), 0o600))

		_, err := store.Load(context.Background(), "bad")
		require.ErrorIs(t, err, session.ErrCorrupted)
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, err := session.NewFileStore(dir, session.WithFilePrefix("sess-"))
		require.NoError(t, err)
		require.NoError(t, store.Save(context.Background(), "x", session.Values{}))

		_, err = os.Stat(filepath.Join(dir, "sess-x"))
		require.NoError(t, err)
	})
}

func TestFileStore_Sweep(t *testing.T) {
	t.Parallel()

	store, dir := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "old"))
	require.NoError(t, store.Create(ctx, "fresh"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), nil, 0o600))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "session_old"), past, past))

	n, err := store.Sweep(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = store.Load(ctx, "old")
	require.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Load(ctx, "fresh")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "unrelated.txt"))
	require.NoError(t, err)
}
