package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
)

// MemoryListingCache keeps listings in process memory. Suitable for a single API instance.
type MemoryListingCache struct {
	items *ttlcache.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewMemoryListingCache(ttl time.Duration, log zerolog.Logger, opts ...Option) *MemoryListingCache {
	o := buildOptions(opts)
	items := ttlcache.New[string, entry](
		ttlcache.WithTTL[string, entry](ttl),
		ttlcache.WithDisableTouchOnHit[string, entry](),
	)
	return &MemoryListingCache{
		items: items,
		ttl:   ttl,
		now:   o.now,
		log:   log.With().Str("component", "memory-listing-cache").Logger(),
	}
}

// Start runs the expired-item janitor until Stop is called.
func (c *MemoryListingCache) Start() {
	go c.items.Start()
}

func (c *MemoryListingCache) Stop() {
	c.items.Stop()
}

func (c *MemoryListingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := c.items.Get(key)
	if item == nil || !item.Value().fresh(c.now(), c.ttl) {
		metrics.RecordCacheLookup(key, false)
		return nil, false, nil
	}
	metrics.RecordCacheLookup(key, true)
	value := item.Value().Value
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (c *MemoryListingCache) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.items.Set(key, entry{WrittenAt: c.now(), Value: stored}, ttlcache.DefaultTTL)
	return nil
}

func (c *MemoryListingCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Delete(k)
	}
	c.log.Debug().Strs("keys", keys).Msg("listing cache invalidated")
	return nil
}
