package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fastcart-api/internal/model"
)

const categoryListKey = "categories:list"

// CategoryCache keeps the full category list as one JSON blob.
type CategoryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCategoryCache(client *redisv9.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CategoryCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CategoryCache) GetList(ctx context.Context) ([]model.Category, bool, error) {
	raw, err := c.client.Get(ctx, categoryListKey).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get category list failed: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached category list failed: %w", err)
	}
	return categories, true, nil
}

func (c *CategoryCache) SetList(ctx context.Context, categories []model.Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal category list failed: %w", err)
	}
	if err := c.client.Set(ctx, categoryListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set category list failed: %w", err)
	}
	return nil
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoryListKey).Err(); err != nil {
		return fmt.Errorf("redis delete category list failed: %w", err)
	}
	return nil
}
