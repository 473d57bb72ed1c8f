package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	listKeyPrefix = "products:"
	listTTL       = 60 * time.Second
)

// Cache is a short-TTL Redis cache for canonical list responses. A nil
// Cache is valid and caches nothing, so the API works without Redis.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func New(redisURL string, logger *logger.Logger) (*Cache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10

	client := redis.NewClient(opts)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		client: client,
		logger: logger,
	}, nil
}

// ListKey builds the cache key for a category listing.
func ListKey(categoryID int64, slug string) string {
	return fmt.Sprintf("%s%d:%s", listKeyPrefix, categoryID, slug)
}

// GetProducts returns a cached listing, or false on miss or any Redis
// trouble. Cache failures never fail a read.
func (c *Cache) GetProducts(ctx context.Context, key string) ([]models.CanonicalProduct, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed for %s: %v", key, err)
		}
		return nil, false
	}

	var products []models.CanonicalProduct
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("Cache entry for %s is corrupt, dropping it", key)
		c.client.Del(ctx, key)
		return nil, false
	}

	return products, true
}

func (c *Cache) SetProducts(ctx context.Context, key string, products []models.CanonicalProduct) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, listTTL).Err(); err != nil {
		c.logger.Warn("Cache write failed for %s: %v", key, err)
	}
}

// InvalidateProducts drops every cached listing. Called by the worker when
// sync events arrive.
func (c *Cache) InvalidateProducts(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	keys, err := c.client.Keys(ctx, listKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
