// Package redis caches resolved records so the redirect path can skip the
// database lookup for popular codes. Click counting always happens in the
// record store; the cache only short-circuits the read.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shortlyhq/shortly/internal/entity"
)

const keyPrefix = "url:"

// cachedURL carries the fields a cached resolution needs. The click counter is
// deliberately absent: its source of truth is the record store and a cached
// copy would only ever be stale.
type cachedURL struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

type URLCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewURLCache(client *redis.Client, ttl time.Duration) *URLCache {
	return &URLCache{client: client, ttl: ttl}
}

// Get returns the cached record for a short code, or nil on a cache miss.
func (c *URLCache) Get(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "adapter.cache.redis.URLCache.Get"

	data, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to get cached url: %w", op, err)
	}

	var cached cachedURL
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal cached url: %w", op, err)
	}

	return &entity.URLRecord{
		ID:          cached.ID,
		ShortCode:   cached.ShortCode,
		OriginalURL: cached.OriginalURL,
		ExpiryDate:  cached.ExpiryDate,
	}, nil
}

// Set caches a resolved record for the configured TTL.
func (c *URLCache) Set(ctx context.Context, rec *entity.URLRecord) error {
	const op = "adapter.cache.redis.URLCache.Set"

	data, err := json.Marshal(cachedURL{
		ID:          rec.ID,
		ShortCode:   rec.ShortCode,
		OriginalURL: rec.OriginalURL,
		ExpiryDate:  rec.ExpiryDate,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal url: %w", op, err)
	}

	if err := c.client.Set(ctx, keyPrefix+rec.ShortCode, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set cached url: %w", op, err)
	}

	return nil
}

// Invalidate drops a cached record, e.g. after the owner deletes it.
func (c *URLCache) Invalidate(ctx context.Context, shortCode string) error {
	const op = "adapter.cache.redis.URLCache.Invalidate"

	if err := c.client.Del(ctx, keyPrefix+shortCode).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete cached url: %w", op, err)
	}

	return nil
}
