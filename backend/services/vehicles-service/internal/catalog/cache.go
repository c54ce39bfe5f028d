package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheKey is the redis key holding the serialized catalog.
const CacheKey = "evcast:vehicles:catalog"

// Cache keeps the catalog in redis in front of a slower Source. Redis failures fall
// through to the source.
type Cache struct {
	client *redis.Client
	next   Source
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps next with a redis cache.
func NewCache(client *redis.Client, next Source, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, next: next, ttl: ttl, logger: logger}
}

// Catalog implements Source.
func (c *Cache) Catalog(ctx context.Context) (*Catalog, error) {
	data, err := c.client.Get(ctx, CacheKey).Bytes()
	switch {
	case err == nil:
		var cat Catalog
		if err := json.Unmarshal(data, &cat); err == nil {
			return &cat, nil
		}
		c.logger.Warn("discarding malformed cached catalog")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", zap.Error(err))
	}

	cat, err := c.next.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(cat)
	if err != nil {
		return cat, nil
	}
	if err := c.client.Set(ctx, CacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return cat, nil
}
