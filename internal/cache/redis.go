package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 5 * time.Minute
	keyPrefix  = "lb:"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func GlobalKey(limit int) string {
	return fmt.Sprintf("%sglobal:limit:%d", keyPrefix, limit)
}

func CategoryKey(categoryID string, limit int) string {
	return fmt.Sprintf("%scategory:%s:limit:%d", keyPrefix, categoryID, limit)
}

func TrendingKey(days, limit int) string {
	return fmt.Sprintf("%strending:days:%d:limit:%d", keyPrefix, days, limit)
}

func (c *Cache) GetGlobal(ctx context.Context, limit int) ([]domain.GlobalEntry, bool, error) {
	return get[domain.GlobalEntry](ctx, c.client, GlobalKey(limit))
}

func (c *Cache) SetGlobal(ctx context.Context, limit int, entries []domain.GlobalEntry) error {
	return set(ctx, c.client, GlobalKey(limit), entries, c.ttl)
}

func (c *Cache) GetCategory(ctx context.Context, categoryID string, limit int) ([]domain.CategoryEntry, bool, error) {
	return get[domain.CategoryEntry](ctx, c.client, CategoryKey(categoryID, limit))
}

func (c *Cache) SetCategory(ctx context.Context, categoryID string, limit int, entries []domain.CategoryEntry) error {
	return set(ctx, c.client, CategoryKey(categoryID, limit), entries, c.ttl)
}

func (c *Cache) GetTrending(ctx context.Context, days, limit int) ([]domain.TrendingEntry, bool, error) {
	return get[domain.TrendingEntry](ctx, c.client, TrendingKey(days, limit))
}

func (c *Cache) SetTrending(ctx context.Context, days, limit int, entries []domain.TrendingEntry) error {
	return set(ctx, c.client, TrendingKey(days, limit), entries, c.ttl)
}

// Invalidate drops every cached leaderboard: used when any score changes
func (c *Cache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func get[T any](ctx context.Context, client *redis.Client, key string) ([]T, bool, error) {
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	var entries []T
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return entries, true, nil
}

func set[T any](ctx context.Context, client *redis.Client, key string, entries []T, ttl time.Duration) error {
	val, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}
