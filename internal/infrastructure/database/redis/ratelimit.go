package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

const rateKeyspace = "rl"

type counterBackend interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter counts requests per caller in fixed windows.  Redis failures
// fail open: the limiter exists to protect the model quota, not to gate
// availability on the cache tier.
type RateLimiter struct {
	counter counterBackend
	keyFor  func(parts ...string) string
	limit   int
	window  time.Duration
	log     logging.Logger
}

// NewRateLimiter allows limit requests per window per key.
func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		counter: client.rdb,
		keyFor:  client.Key,
		limit:   limit,
		window:  window,
		log:     client.log,
	}
}

// Allow reports whether the caller identified by key may proceed.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	redisKey := l.keyFor(rateKeyspace, key)

	count, err := l.counter.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn("rate limit counter failed, allowing request",
			logging.String("key", key), logging.Err(err))
		return true
	}
	if count == 1 {
		if err := l.counter.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn("rate limit expiry failed",
				logging.String("key", key), logging.Err(err))
		}
	}
	return count <= int64(l.limit)
}
