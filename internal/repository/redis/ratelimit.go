package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterPrefix = "ratelimit:"

// RateLimiter counts requests per caller in fixed one-minute windows backed
// by Redis, so the budget holds across server instances. Burst is extra
// headroom on top of the per-minute budget within a single window.
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

func limiterKey(key string) string {
	return limiterPrefix + key
}

// Allow records one request for key and reports whether it fits the current
// window, along with the remaining budget and when the window resets. The
// caller decides what a Redis failure means; the middleware fails open.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowEnd := now.Truncate(time.Minute).Add(time.Minute)

	// INCR plus ExpireNX in one round trip. The expiry is only set when the
	// key is fresh, so the window does not slide on every request.
	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, limiterKey(key))
	pipe.ExpireNX(ctx, limiterKey(key), time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := incrCmd.Val()
	limit := int64(r.requestsPerMinute + r.burst)

	remaining := int(limit - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, windowEnd, nil
}

// Reset clears the counter for key, ending its current window early.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.rdb.Del(ctx, limiterKey(key)).Err()
}
