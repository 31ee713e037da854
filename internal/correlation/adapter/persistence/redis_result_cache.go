package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// clearBatchSize is the SCAN page size used by Clear.
const clearBatchSize = 100

// RedisResultCache stores dataset results as JSON under a key prefix.
type RedisResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

var _ repository.ResultCache = (*RedisResultCache)(nil)

// NewRedisResultCache creates a cache on client. A zero ttl keeps entries forever.
func NewRedisResultCache(client *redis.Client, prefix string, ttl time.Duration, log logger.Logger) *RedisResultCache {
	return &RedisResultCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.WithComponent("result_cache"),
	}
}

// Get decodes the entry stored under key into dst. A missing entry returns
// errors.ErrCacheMiss.
func (c *RedisResultCache) Get(ctx context.Context, key string, dst interface{}) error {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrCacheMiss
		}
		c.logger.Error("Failed to read cache entry", zap.String("key", key), zap.Error(err))
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return apperrors.ErrCacheMiss
	}
	return nil
}

// Set stores value under key.
func (c *RedisResultCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to write cache entry", zap.String("key", key), zap.Error(err))
		return err
	}
	c.logger.Debug("Cache entry stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete removes the entries stored under keys.
func (c *RedisResultCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// Clear removes every entry under the prefix.
func (c *RedisResultCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", clearBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
