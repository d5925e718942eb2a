package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for RedisStore.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	PrefixKey string
	// TTL is the key expiry applied on every write.
	TTL time.Duration
}

// RedisStore keeps entries in Redis with a key expiry, so stale data
// disappears without an explicit purge.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type redisEnvelope struct {
	Value     []byte `json:"value"`
	FetchedAt int64  `json:"fetched_at"`
}

// NewRedisStore connects to Redis and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, prefix: cfg.PrefixKey, ttl: cfg.TTL}, nil
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Entry{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return Entry{Value: env.Value, FetchedAt: time.UnixMilli(env.FetchedAt)}, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	raw, err := json.Marshal(redisEnvelope{Value: e.Value, FetchedAt: e.FetchedAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Purge is a no-op: key expiry already evicts stale entries.
func (r *RedisStore) Purge(_ context.Context, _ time.Time) (int, error) { return 0, nil }

func (r *RedisStore) Close() error { return r.client.Close() }
