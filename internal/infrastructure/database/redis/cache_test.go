package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/recommend"
)

type fakeKV struct {
	store   map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{store: make(map[string][]byte)}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.store[key] = value.([]byte)
	f.lastTTL = ttl
	return redis.NewStatusResult("OK", nil)
}

func newTestCache(kv *fakeKV, ttl time.Duration) *ResultCache {
	prefixed := &Client{prefix: "teenfin:"}
	return &ResultCache{kv: kv, keyFor: prefixed.Key, ttl: ttl, log: logging.NewNopLogger()}
}

func sampleResult() *recommend.RecommendationResult {
	return &recommend.RecommendationResult{
		Summary:  "요약",
		Insights: []string{"조언 하나"},
		Savings: []recommend.ProductRecommendation{
			{ProductID: "SAV001", Type: "SAVINGS", Name: "청소년 적금"},
		},
	}
}

func TestResultCache_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	cache := newTestCache(kv, 10*time.Minute)

	cache.Set(context.Background(), "digest-1", sampleResult())

	got, ok := cache.Get(context.Background(), "digest-1")
	require.True(t, ok)
	assert.Equal(t, "요약", got.Summary)
	require.Len(t, got.Savings, 1)
	assert.Equal(t, "SAV001", got.Savings[0].ProductID)

	assert.Equal(t, 10*time.Minute, kv.lastTTL)
	assert.Contains(t, kv.store, "teenfin:reco:digest-1")
}

func TestResultCache_Miss(t *testing.T) {
	cache := newTestCache(newFakeKV(), time.Minute)

	_, ok := cache.Get(context.Background(), "unknown")
	assert.False(t, ok)
}

func TestResultCache_ReadErrorIsMiss(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	cache := newTestCache(kv, time.Minute)

	_, ok := cache.Get(context.Background(), "digest-1")
	assert.False(t, ok)
}

func TestResultCache_CorruptEntryIsMiss(t *testing.T) {
	kv := newFakeKV()
	kv.store["teenfin:reco:digest-1"] = []byte("{not json")
	cache := newTestCache(kv, time.Minute)

	_, ok := cache.Get(context.Background(), "digest-1")
	assert.False(t, ok)
}

func TestResultCache_WriteErrorIsSilent(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("readonly replica")
	cache := newTestCache(kv, time.Minute)

	// Must not panic or surface the failure.
	cache.Set(context.Background(), "digest-1", sampleResult())
	assert.Empty(t, kv.store)
}

func TestClient_KeyJoinsWithPrefix(t *testing.T) {
	c := &Client{prefix: "teenfin:"}
	assert.Equal(t, "teenfin:reco:abc", c.Key("reco", "abc"))
	assert.Equal(t, "teenfin:rl", c.Key("rl"))
}
