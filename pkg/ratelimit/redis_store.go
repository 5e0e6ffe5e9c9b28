package ratelimit

import (
	"context"
	_ "embed"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed fixed_window.lua
var fixedWindowScript string

// DefaultPrefix namespaces every key a RedisStore touches.
const DefaultPrefix = "rate_limit:"

const defaultStoreTimeout = 5 * time.Second

// RedisStore is a Store backed by Redis. The increment runs as a Lua script
// so that INCR and the first-write PEXPIRE are a single atomic step, which
// makes it safe to share one window between many application instances.
type RedisStore struct {
	client    *redis.Client
	scriptSHA string
	prefix    string
	timeout   time.Duration
}

// NewRedisStore pings the client and loads the counter script.
//
// If Redis is restarted and its script cache cleared, Incr may return a
// NOSCRIPT error until the script is reloaded (recreating the store via
// NewRedisStore loads it again).
func NewRedisStore(client *redis.Client, opts ...StoreOption) (*RedisStore, error) {
	s := &RedisStore{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	sha, err := client.ScriptLoad(ctx, fixedWindowScript).Result()
	if err != nil {
		return nil, err
	}
	s.scriptSHA = sha

	return s, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.EvalSha(ctx, s.scriptSHA, []string{s.prefix + key}, ttl.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	count, ok := res.(int64)
	if !ok {
		return 0, errBadScriptReply
	}
	return count, nil
}

func (s *RedisStore) Usage(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.client.Get(ctx, s.prefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// PTTL reports -1ns (no expiry) and -2ns (no key) through go-redis;
	// both collapse to "no remaining lifetime" for callers.
	ttl, err := s.client.PTTL(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err()
}
