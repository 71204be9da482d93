package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const documentKeyPrefix = "doc:"

// DocumentCache keeps read-through copies of stored documents in Redis.
type DocumentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDocumentCache(rdb *redis.Client, ttl time.Duration) *DocumentCache {
	return &DocumentCache{rdb: rdb, ttl: ttl}
}

// Get reports a miss as (nil, false, nil).
func (c *DocumentCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, documentKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *DocumentCache) Set(ctx context.Context, name string, body []byte) error {
	return c.rdb.Set(ctx, documentKeyPrefix+name, body, c.ttl).Err()
}

func (c *DocumentCache) Delete(ctx context.Context, name string) error {
	return c.rdb.Del(ctx, documentKeyPrefix+name).Err()
}
