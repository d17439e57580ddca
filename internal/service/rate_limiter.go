package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitKeyPrefix namespaces fixed-window counters
const RedisRateLimitKeyPrefix = "ratelimit:"

// incrWindowScript increments the counter and starts the window on first hit.
// Returns the count and the remaining window in milliseconds.
var incrWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return {count, redis.call('PTTL', KEYS[1])}
`)

// RateLimiter counts hits per key in fixed windows
type RateLimiter interface {
	// Allow records a hit and reports whether it is within the limit, plus the time until the window resets
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type redisRateLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) RateLimiter {
	return &redisRateLimiter{
		redisClient: redisClient,
		limit:       limit,
		window:      window,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := incrWindowScript.Run(ctx, l.redisClient, []string{RedisRateLimitKeyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	return count <= int64(l.limit), ttl, nil
}
