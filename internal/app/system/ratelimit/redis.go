package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// slidingWindow trims entries older than the window, counts what is left and
// records the new request only when it fits. Returns the new count, or -1
// when the request is over the limit.
//
// KEYS[1] = bucket; ARGV = now(ms), window start(ms), ttl(s), member, limit
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
redis.call('ZREMRANGEBYSCORE', key, '0', ARGV[2])
local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, ARGV[1], ARGV[4])
  redis.call('EXPIRE', key, ARGV[3])
  return count + 1
end
return -1
`)

// RedisLimiter is a sliding-window limiter shared by every instance that
// points at the same Redis.
type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
	log    *zap.Logger
}

// NewRedis returns a limiter allowing limit requests per key per window.
func NewRedis(rdb redis.Scripter, prefix string, limit int, window time.Duration, log *zap.Logger) *RedisLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, log: log}
}

// Allow fails open when Redis is unreachable.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now()
	ttl := int64(l.window / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	member := fmt.Sprintf("%d", now.UnixNano())

	n, err := slidingWindow.Run(ctx, l.rdb, []string{l.prefix + key},
		now.UnixMilli(), now.Add(-l.window).UnixMilli(), ttl, member, l.limit).Int()
	if err != nil {
		l.log.Warn("rate limiter unavailable; allowing request",
			zap.String("key", key), zap.Error(err))
		return true
	}
	return n >= 0
}
