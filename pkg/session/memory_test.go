package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("create then load", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, store.Create(ctx, "1"))
		v, err := store.Load(ctx, "1")
		require.NoError(t, err)
		require.Empty(t, v)
		require.Equal(t, 1, store.Len())
	})

	t.Run("load missing", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewMemoryStore().Load(context.Background(), "1")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("every operation validates the id", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		ctx := context.Background()

		require.ErrorIs(t, store.Create(ctx, "a/b"), session.ErrInvalidID)
		_, err := store.Load(ctx, "a/b")
		require.ErrorIs(t, err, session.ErrInvalidID)
		require.ErrorIs(t, store.Save(ctx, "a/b", session.Values{}), session.ErrInvalidID)
	})

	t.Run("stored bag is isolated from caller mutations", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		ctx := context.Background()

		in := session.Values{"k": "v"}
		require.NoError(t, store.Save(ctx, "1", in))
		in["k"] = "changed"

		out, err := store.Load(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "v", out["k"])

		out["k"] = "changed again"
		again, err := store.Load(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "v", again["k"])
	})

	t.Run("create does not reset existing record", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, "1", session.Values{"k": "v"}))
		require.NoError(t, store.Create(ctx, "1"))

		out, err := store.Load(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "v", out["k"])
	})

	t.Run("sweep by cutoff", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		ctx := context.Background()
		require.NoError(t, store.Create(ctx, "1"))
		require.NoError(t, store.Create(ctx, "2"))

		n, err := store.Sweep(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.Zero(t, n)

		n, err = store.Sweep(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Zero(t, store.Len())
	})
}
