package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// RedisClient wraps the cache used for temporary data and run summaries.
type RedisClient struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisClient builds a client for the configured server. The connection
// is dialed on first command.
func NewRedisClient(cfg *config.Config) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	log := logging.Component("redis")
	log.Debug().Str("addr", cfg.RedisAddr()).Int("db", cfg.RedisDB).Msg("Redis client initialized")

	return &RedisClient{rdb: rdb, log: log}
}

// Ping verifies the server responds.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Set stores a value with an optional expiry (zero means no expiry).
func (c *RedisClient) Set(ctx context.Context, key, value string, expire time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, expire).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.log.Debug().Str("key", key).Dur("expire", expire).Msg("Set key")
	return nil
}

// Get fetches a value. The second return reports whether the key existed.
func (c *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

// Delete removes keys and returns how many existed.
func (c *RedisClient) Delete(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	c.log.Debug().Int64("deleted", n).Msg("Deleted keys")
	return n, nil
}

// Exists reports whether a key is present.
func (c *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key %s: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the client's connection pool.
func (c *RedisClient) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	c.log.Info().Msg("Redis connection closed")
	return nil
}
