package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLCache keeps presigned URLs warm so repeated reads of the same asset
// don't re-sign on every request. Misses are not errors.
type URLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewURLCache(rdb *redis.Client, ttl time.Duration) *URLCache {
	return &URLCache{rdb: rdb, ttl: ttl}
}

func (c *URLCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, "signed_url:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c *URLCache) Set(ctx context.Context, key, url string) error {
	return c.rdb.Set(ctx, "signed_url:"+key, url, c.ttl).Err()
}
