package cache

import (
	"context"
	"strings"
	"time"
)

// forecastKeyPrefix namespaces forecast entries in Redis
const forecastKeyPrefix = "forecast:market:"

// ForecastCache is the TTL cache in front of the scrape+predict path. Only
// the raw forecast set is cached — filtering and ranking always run fresh on
// top of it. Expired entries simply stop resolving; Redis evicts them.
type ForecastCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewForecastCache creates a forecast cache with a fixed TTL
func NewForecastCache(redis *RedisClient, ttl time.Duration) *ForecastCache {
	return &ForecastCache{redis: redis, ttl: ttl}
}

// CacheKey normalizes a market identifier into a cache key: case-insensitive,
// whitespace-stripped, so "Seattle, WA" and "seattle,wa" share an entry.
func CacheKey(location string) string {
	normalized := strings.ToLower(location)
	normalized = strings.Join(strings.Fields(normalized), "")
	return forecastKeyPrefix + normalized
}

// Get loads the cached forecast set for a market into dest.
// Returns false on miss, expiry, or an unavailable cache.
func (c *ForecastCache) Get(ctx context.Context, location string, dest interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	return c.redis.Get(ctx, CacheKey(location), dest) == nil
}

// Set stores the raw forecast set for a market with the configured TTL.
// Cache write failures are non-fatal for the serving path.
func (c *ForecastCache) Set(ctx context.Context, location string, value interface{}) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Set(ctx, CacheKey(location), value, c.ttl)
}

// Invalidate drops the cached forecast set for a market, used when the
// market's model or history is deleted.
func (c *ForecastCache) Invalidate(ctx context.Context, location string) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Delete(ctx, CacheKey(location))
}
