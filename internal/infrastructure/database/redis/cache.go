package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/recommend"
)

const resultKeyspace = "reco"

// kvBackend is the slice of the redis client the cache uses; narrowed so
// tests can fake it with the go-redis result constructors.
type kvBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ResultCache stores finished recommendation results keyed by answer digest.
// All failures degrade to cache misses; the pipeline is the source of truth.
type ResultCache struct {
	kv     kvBackend
	keyFor func(parts ...string) string
	ttl    time.Duration
	log    logging.Logger
}

var _ recommend.ResultCache = (*ResultCache)(nil)

// NewResultCache builds a cache with the given entry lifetime.
func NewResultCache(client *Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{kv: client.rdb, keyFor: client.Key, ttl: ttl, log: client.log}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*recommend.RecommendationResult, bool) {
	payload, err := c.kv.Get(ctx, c.keyFor(resultKeyspace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("result cache read failed",
			logging.String("key", key), logging.Err(err))
		return nil, false
	}

	var result recommend.RecommendationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.log.Warn("result cache entry corrupt, ignoring",
			logging.String("key", key), logging.Err(err))
		return nil, false
	}
	return &result, true
}

func (c *ResultCache) Set(ctx context.Context, key string, result *recommend.RecommendationResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("result cache marshal failed", logging.Err(err))
		return
	}
	if err := c.kv.Set(ctx, c.keyFor(resultKeyspace, key), payload, c.ttl).Err(); err != nil {
		c.log.Warn("result cache write failed",
			logging.String("key", key), logging.Err(err))
	}
}
