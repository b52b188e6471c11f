package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"pandey.app/outreach/internal/model"
)

const keyPrefix = "outreach:strategy:"

// StrategyCache stores extracted strategies by prompt. Failures are logged
// and reported as misses.
type StrategyCache interface {
	Get(ctx context.Context, key string) (*model.Strategy, bool)
	Set(ctx context.Context, key string, s model.Strategy)
}

// Key derives the cache key for one generation request. Any change to the
// model or either prompt yields a different key.
func Key(modelName, systemPrompt, userPrompt string) string {
	h := sha256.New()
	for _, part := range []string{modelName, systemPrompt, userPrompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) StrategyCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisCache) Get(ctx context.Context, key string) (*model.Strategy, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "strategy cache read failed", "error", err)
		}
		return nil, false
	}

	var s model.Strategy
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.WarnContext(ctx, "strategy cache entry is corrupt", "error", err)
		return nil, false
	}
	return &s, true
}

func (c *redisCache) Set(ctx context.Context, key string, s model.Strategy) {
	data, err := json.Marshal(s)
	if err != nil {
		c.logger.WarnContext(ctx, "encoding strategy for cache failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "strategy cache write failed", "error", err)
	}
}

type noopCache struct{}

// NewNoop returns a cache that never hits.
func NewNoop() StrategyCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (*model.Strategy, bool) { return nil, false }

func (noopCache) Set(context.Context, string, model.Strategy) {}
