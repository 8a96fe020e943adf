package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

// GetJSON decodes the cached value at key into dst. It reports false on a miss.
// A nil cache always misses. Decode failures evict the key and count as a miss.
func GetJSON(ctx context.Context, c domain.Cache, key string, dst interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Get().Warn("Evicting undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it. Failures are logged, never returned, since
// the cache only shortcuts reads.
func SetJSON(ctx context.Context, c domain.Cache, key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Get().Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.Set(ctx, key, string(data), ttl); err != nil {
		logger.Get().Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate deletes key, logging failures.
func Invalidate(ctx context.Context, c domain.Cache, key string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate cache entry", zap.String("key", key), zap.Error(err))
	}
}
