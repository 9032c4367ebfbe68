package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reviewme/catalog/internal/domain"
)

// ProductCache is a read-through cache for single-product lookups. All
// implementations are best-effort: a cache failure degrades to a store read
// and is never surfaced to the caller.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, product *domain.Product)
	Invalidate(ctx context.Context, id string)
}

// RedisProductCache caches products in Redis as JSON with a TTL.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// Get returns the cached product for id, or (nil, false) on a miss.
func (c *RedisProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.WarnContext(ctx, "product cache entry corrupt, dropping",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &p, true
}

// Set stores the product under its ID with the configured TTL.
func (c *RedisProductCache) Set(ctx context.Context, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.WarnContext(ctx, "product cache marshal failed",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached entry for id.
func (c *RedisProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// NoopProductCache is used when caching is disabled.
type NoopProductCache struct{}

func NewNoopProductCache() *NoopProductCache { return &NoopProductCache{} }

func (NoopProductCache) Get(context.Context, string) (*domain.Product, bool) { return nil, false }
func (NoopProductCache) Set(context.Context, *domain.Product)                {}
func (NoopProductCache) Invalidate(context.Context, string)                  {}
