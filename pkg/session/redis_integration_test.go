//go:build integration

package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/pkg/redis"
	"github.com/dmitrymomot/restify/pkg/session"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisStore(t *testing.T) {
	client := newTestRedisClient(t)
	store := session.NewRedisStore(client, session.WithRedisPrefix("test_session_"), session.WithRedisTTL(time.Minute))
	ctx := context.Background()

	_, err := store.Load(ctx, "1")
	require.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Create(ctx, "1"))
	v, err := store.Load(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, store.Save(ctx, "1", session.Values{"user": "alice"}))
	require.NoError(t, store.Create(ctx, "1"))

	v, err = store.Load(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "alice", v["user"])

	ttl, err := client.TTL(ctx, "test_session_1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}
