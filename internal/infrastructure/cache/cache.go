package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/infrastructure/redis"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

var Module = fx.Module("cache",
	fx.Provide(NewCache),
)

// Cache stores small string values with a TTL
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// NewCache uses Redis when it is configured, process memory otherwise
func NewCache(client *redis.RedisClient, logger *zap.Logger, cfg *config.Config) Cache {
	if client == nil {
		logger.Info("Using in-memory cache")
		return NewMemoryCache(time.Now)
	}
	logger.Info("Using Redis cache", zap.Duration("ttl", cfg.Redis.CacheTTL))
	return &redisCache{client: client}
}

type redisCache struct {
	client *redis.RedisClient
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key)
	if redis.IsNil(err) {
		return "", ErrMiss
	}
	return v, err
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl)
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is a map-backed Cache with lazy expiry
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", ErrMiss
	}
	return e.value, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
