package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "dashboard:query:"
	defaultRedisTTL = 10 * time.Minute
	redisPingWait   = 2 * time.Second
)

// RedisConfig configures a shared Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, redisPingWait)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisStore keeps entries as JSON under a per-query namespace. Entries expire
// after ttl; freshness is still decided by the cache from FetchedAt.
type RedisStore[T any] struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore creates a store for one query kind.
func NewRedisStore[T any](client *redis.Client, namespace string, ttl time.Duration) *RedisStore[T] {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	return &RedisStore[T]{client: client, namespace: namespace, ttl: ttl}
}

func (s *RedisStore[T]) Get(ctx context.Context, key Key) (Entry[T], bool, error) {
	var e Entry[T]
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return e, true, nil
}

func (s *RedisStore[T]) Set(ctx context.Context, key Key, entry Entry[T]) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cached entry: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) key(k Key) string {
	var b strings.Builder
	b.Grow(len(redisKeyPrefix) + len(s.namespace) + 64)
	b.WriteString(redisKeyPrefix)
	b.WriteString(s.namespace)
	b.WriteString(":chain=")
	b.WriteString(k.ChainID.String())
	b.WriteString(":addr=")
	b.WriteString(k.Address)
	return b.String()
}
