package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
)

// CacheVersion namespaces listing keys so a format change never reads old entries.
const CacheVersion = "v1"

// RedisListingCache stores listings in the metadata index with a TTL.
type RedisListingCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewRedisListingCache(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger, opts ...Option) *RedisListingCache {
	o := buildOptions(opts)
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
		now:    o.now,
		log:    log.With().Str("component", "redis-listing-cache").Logger(),
	}
}

func redisKey(key string) string {
	return "gallery:" + CacheVersion + ":" + key
}

func (c *RedisListingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(key, false)
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(key, false)
		return nil, false, fmt.Errorf("failed to get value from cache: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || !e.fresh(c.now(), c.ttl) {
		metrics.RecordCacheLookup(key, false)
		return nil, false, nil
	}
	metrics.RecordCacheLookup(key, true)
	return e.Value, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, key string, value []byte) error {
	encoded, err := json.Marshal(entry{WrittenAt: c.now(), Value: value})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache value: %w", err)
	}
	return nil
}

func (c *RedisListingCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = redisKey(k)
	}
	if err := c.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	c.log.Debug().Strs("keys", keys).Msg("listing cache invalidated")
	return nil
}
