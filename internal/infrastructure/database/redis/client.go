// Package redis wraps the shared Redis connection and the two consumers
// built on it: the recommendation result cache and the request rate limiter.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// Client owns the connection pool and the configured key prefix.
type Client struct {
	rdb    redis.UniversalClient
	prefix string
	log    logging.Logger
}

// NewClient connects and verifies the server answers a ping.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis connection failed")
	}

	log.Info("redis connected",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB))

	return &Client{rdb: rdb, prefix: cfg.KeyPrefix, log: log.Named("redis")}, nil
}

// Key joins the configured prefix with the given parts.
func (c *Client) Key(parts ...string) string {
	key := c.prefix
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += p
	}
	return key
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
