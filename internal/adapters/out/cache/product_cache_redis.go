// internal/adapters/out/cache/product_cache_redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	productdom "boutique/internal/domain/product"
)

const (
	catalogKey       = "catalog:products"
	productKeyPrefix = "catalog:product:"
	defaultCacheTTL  = 5 * time.Minute
)

// ProductCacheRedis is a read-through cache in front of a
// product.Repository. Reads are served from Redis when possible;
// every write invalidates the affected keys. A Redis outage degrades
// to the inner repository, never to an error.
type ProductCacheRedis struct {
	inner  productdom.Repository
	client *redis.Client
	ttl    time.Duration
}

func NewProductCacheRedis(inner productdom.Repository, client *redis.Client) *ProductCacheRedis {
	return &ProductCacheRedis{inner: inner, client: client, ttl: defaultCacheTTL}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("cache: connect redis: %w", err)
	}

	log.Println("[cache] connected to Redis")
	return client, nil
}

// ========================
// RepositoryPort impl
// ========================

func (c *ProductCacheRedis) Add(ctx context.Context, p *productdom.Product) (*productdom.Product, error) {
	saved, err := c.inner.Add(ctx, p)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, saved.ID)
	return saved, nil
}

func (c *ProductCacheRedis) Update(ctx context.Context, p *productdom.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID)
	return nil
}

func (c *ProductCacheRedis) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCacheRedis) GetByID(ctx context.Context, id int64) (*productdom.Product, error) {
	key := fmt.Sprintf("%s%d", productKeyPrefix, id)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var p productdom.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[cache] WARN: redis get %s failed: %v", key, err)
	}

	p, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, p)
	return p, nil
}

func (c *ProductCacheRedis) GetAll(ctx context.Context) ([]productdom.Product, error) {
	if raw, err := c.client.Get(ctx, catalogKey).Bytes(); err == nil {
		var items []productdom.Product
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[cache] WARN: redis get %s failed: %v", catalogKey, err)
	}

	items, err := c.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, catalogKey, items)
	return items, nil
}

// ========================
// helpers
// ========================

func (c *ProductCacheRedis) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] WARN: redis set %s failed: %v", key, err)
	}
}

func (c *ProductCacheRedis) invalidate(ctx context.Context, id int64) {
	keys := []string{catalogKey, fmt.Sprintf("%s%d", productKeyPrefix, id)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] WARN: redis del %v failed: %v", keys, err)
	}
}
