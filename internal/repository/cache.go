package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/framekart/framekart-store-service/internal/config"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/metrics"
	"github.com/framekart/framekart-store-service/internal/models"
)

const (
	productKeyPrefix = "product:"
	orderKeyPrefix   = "order:"
	defaultCacheTTL  = 5 * time.Minute
)

// StoreCache caches catalog products and orders. Cached stock levels are
// advisory display data only; the conditional decrement against the store
// is what decides reservations.
type StoreCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewStoreCache creates a Redis-backed cache.
func NewStoreCache(cfg config.RedisConfig) *StoreCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &StoreCache{
		client: client,
		ttl:    ttl,
		logger: logging.New("store-cache"),
	}
}

// GetProduct retrieves a cached product, or (nil, nil) on a miss.
func (c *StoreCache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	data, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("product").Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}

	metrics.CacheHits.WithLabelValues("product").Inc()
	return &product, nil
}

// SetProduct stores a product in cache.
func (c *StoreCache) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, productKeyPrefix+product.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"product_id": product.ID,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

// InvalidateProduct removes a product from cache after a catalog or stock
// mutation.
func (c *StoreCache) InvalidateProduct(ctx context.Context, id string) error {
	return c.client.Del(ctx, productKeyPrefix+id).Err()
}

// GetOrder retrieves a cached order, or (nil, nil) on a miss.
func (c *StoreCache) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("order").Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	metrics.CacheHits.WithLabelValues("order").Inc()
	return &order, nil
}

// SetOrder stores an order in cache.
func (c *StoreCache) SetOrder(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err()
}

// InvalidateOrder removes an order from cache after a lifecycle or payment
// mutation.
func (c *StoreCache) InvalidateOrder(ctx context.Context, id string) error {
	return c.client.Del(ctx, orderKeyPrefix+id).Err()
}
