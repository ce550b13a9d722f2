package reputation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache is the lookup-cache behavior the client depends on.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// CacheKey hashes a provider name into a stable cache key.
func CacheKey(provider string) string {
	sum := sha256.Sum256([]byte(provider))
	return "reputation:" + hex.EncodeToString(sum[:])
}

// MemoryCache is the in-process tier.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// RedisCache is the shared remote tier, used when multiple analyzer
// instances should reuse each other's lookups.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = c.client.Set(ctx, key, value, ttl).Err()
}

// LayeredCache checks memory first, then the remote tier, promoting remote
// hits into memory. A nil remote tier degrades to memory-only.
type LayeredCache struct {
	memory Cache
	remote Cache
}

func NewLayeredCache(memory, remote Cache) *LayeredCache {
	return &LayeredCache{memory: memory, remote: remote}
}

func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if b, ok := c.memory.Get(ctx, key); ok {
		return b, true
	}
	if c.remote == nil {
		return nil, false
	}
	b, ok := c.remote.Get(ctx, key)
	if ok {
		c.memory.Set(ctx, key, b, gocache.DefaultExpiration)
	}
	return b, ok
}

func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.memory.Set(ctx, key, value, ttl)
	if c.remote != nil {
		c.remote.Set(ctx, key, value, ttl)
	}
}
