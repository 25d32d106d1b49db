package automation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisGuard is a cooldown guard shared across hosts, backed by SETNX with a
// TTL equal to the cooldown window. Redis failures fail open: the engine
// prefers a duplicate side effect over a silently dropped one.
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

// NewRedisGuard constructs a redis-backed guard.
func NewRedisGuard(client *redis.Client, window time.Duration) *RedisGuard {
	return &RedisGuard{client: client, window: window}
}

// Allow claims the (rule, record) cooldown key; the claim expires after the
// window.
func (g *RedisGuard) Allow(ctx context.Context, ruleID uint64, entity EntityType, recordID uint64) bool {
	key := cooldownKey(ruleID, entity, recordID)
	ok, errSet := g.client.SetNX(ctx, key, 1, g.window).Result()
	if errSet != nil {
		log.WithError(errSet).Warnf("automation: cooldown check failed for %s", key)
		return true
	}
	return ok
}
