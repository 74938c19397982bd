package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the Redis connection. When Redis is disabled by config the
// client is a nil-safe stub and consumers fall back to in-process behavior.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Info("Redis disabled, in-memory fallbacks will be used")
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	client := &Client{rdb: rdb, enabled: true}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

// NewClientFromRedis wraps an already-constructed Redis client; used by tests
// to inject a miniredis-backed connection.
func NewClientFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb, enabled: true}
}

// IsEnabled reports whether a live Redis connection backs this client
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// Raw exposes the underlying connection for consumers that need redis
// commands directly. Nil when disabled.
func (c *Client) Raw() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Close()
}
