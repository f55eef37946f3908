// Package redis opens go-redis clients for the session store.
//
// [Open] parses a redis:// or rediss:// URL, applies pool settings and pings
// the server with a linear backoff until it answers or the attempts run out.
// [Healthcheck] and [Shutdown] adapt a client to readiness checks and
// shutdown hooks.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"), redis.WithPoolSize(20))
//	if err != nil {
//		return err
//	}
//	store := session.NewRedisStore(client)
package redis
