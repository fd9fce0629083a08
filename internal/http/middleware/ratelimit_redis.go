package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// hitScript counts a hit and returns the running total for the window.
// A key left without a TTL gets one on the next hit.
var hitScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`)

const redisLimiterTimeout = 250 * time.Millisecond

// RedisLimiter is a fixed-window counter shared by every API instance.
// It fails open when Redis is unreachable.
type RedisLimiter struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, logger logrus.FieldLogger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, prefix: prefix + "ratelimit:", timeout: redisLimiterTimeout, logger: logger}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	hits, err := hitScript.Run(ctx, l.client, []string{l.prefix + key}, max(window.Milliseconds(), 1)).Int64()
	if err != nil {
		if l.logger != nil {
			l.logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
		}
		return true
	}
	return hits <= int64(limit)
}
