package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"menu-planner/domain"
)

// Cache wraps a draft store with a Redis read-through cache. Saves write
// through to the backing store first and refresh the cached copy.
type Cache struct {
	base  domain.DraftStore
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base domain.DraftStore, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	if payload, ok := c.loadFromCache(ctx, key); ok {
		return payload, nil
	}

	payload, err := c.base.LoadDraft(ctx, key)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, payload)
	return payload, nil
}

func (c *Cache) SaveDraft(ctx context.Context, key string, payload []byte) error {
	if err := c.base.SaveDraft(ctx, key, payload); err != nil {
		c.evict(ctx, key)
		return err
	}

	c.store(ctx, key, payload)
	return nil
}

func (c *Cache) loadFromCache(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, draftCacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, draftCacheKey(key)).Err()
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) store(ctx context.Context, key string, payload []byte) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	_ = c.redis.Set(ctx, draftCacheKey(key), payload, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, draftCacheKey(key)).Result()
}

func draftCacheKey(key string) string {
	return "cache:" + key
}
