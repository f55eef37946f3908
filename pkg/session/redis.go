package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one Redis string key per session holding the gob-encoded bag.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix. Defaults to "session_".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisTTL expires records after d of inactivity. Zero keeps records forever.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = max(d, 0)
	}
}

// NewRedisStore creates a Redis-backed store.
// The client should be obtained from pkg/redis.Open or pkg/redis.MustOpen.
//
// Example:
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	store := session.NewRedisStore(client, session.WithRedisTTL(24*time.Hour))
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultFilePrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores an empty bag unless the key already exists.
func (s *RedisStore) Create(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.client.SetNX(ctx, s.key(id), []byte{}, s.ttl).Err()
}

// Load fetches and decodes the bag.
func (s *RedisStore) Load(ctx context.Context, id string) (Values, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// Save overwrites the bag and refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, id string, v Values) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	data, err := encode(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

var _ Store = (*RedisStore)(nil)
