package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// CategoryCache memoizes the distinct category list between catalog writes.
type CategoryCache interface {
	Get(ctx context.Context) ([]string, bool)
	Set(ctx context.Context, categories []string) error
	Invalidate(ctx context.Context) error
}

const categoriesKey = "catalog:categories"

type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]string, bool) {
	val, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []string) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesKey, data, c.ttl).Err()
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}
