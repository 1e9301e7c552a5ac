package balance

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "kudos/pkg/domain"
)

const summaryKeyPrefix = "balance:summary:"

// RedisCache stores computed summaries in redis keyed by user id. Writes
// invalidate eagerly; the TTL only bounds staleness if an invalidation is
// lost. Redis being down degrades to direct computation, never to an error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, userID id.UserID) (Summary, bool) {
	raw, err := c.client.Get(ctx, summaryKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, false
	}
	if err != nil {
		c.logger.Warn("balance cache read failed", "user_id", userID.String(), "error", err)
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.Warn("balance cache entry corrupt, dropping", "user_id", userID.String(), "error", err)
		c.Invalidate(ctx, userID)
		return Summary{}, false
	}
	return summary, true
}

func (c *RedisCache) Set(ctx context.Context, userID id.UserID, summary Summary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKeyPrefix+userID.String(), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("balance cache write failed", "user_id", userID.String(), "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID id.UserID) {
	if err := c.client.Del(ctx, summaryKeyPrefix+userID.String()).Err(); err != nil {
		c.logger.Warn("balance cache invalidation failed", "user_id", userID.String(), "error", err)
	}
}

// NopCache disables caching; every query recomputes.
type NopCache struct{}

func (NopCache) Get(context.Context, id.UserID) (Summary, bool) { return Summary{}, false }
func (NopCache) Set(context.Context, id.UserID, Summary)        {}
func (NopCache) Invalidate(context.Context, id.UserID)          {}
