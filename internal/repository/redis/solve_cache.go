package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// resultTTL bounds how long cached solve results live. Solves are pure
// functions of their inputs, so the TTL exists only to keep the keyspace
// from growing without bound.
const resultTTL = 30 * 24 * time.Hour

func resultKey(key string) string { return "solve:" + key }

// GetResult retrieves a cached solve result. Returns (nil, nil) on a cache miss.
func (c *Client) GetResult(ctx context.Context, key string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, resultKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get solve result: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetResult stores a solve result JSON.
func (c *Client) SetResult(ctx context.Context, key string, result json.RawMessage) error {
	return c.rdb.Set(ctx, resultKey(key), []byte(result), resultTTL).Err()
}
