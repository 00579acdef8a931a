package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter applies a fixed-window counter limit keyed in Redis under
// ratelimit:{prefix}:{key}, with the window enforced by key TTL.
type RateLimiter struct {
	client *goredis.Client
	prefix string
	limit  int
	window time.Duration
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// NewRateLimiter creates a rate limiter allowing limit actions per window.
func NewRateLimiter(client *goredis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// limitScript atomically increments the window counter and sets its expiry
// on first use.
var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

// Allow checks and consumes one action for the given key.
func (r *RateLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	fullKey := fmt.Sprintf("ratelimit:%s:%s", r.prefix, key)

	result, err := limitScript.Run(ctx, r.client, []string{fullKey}, r.limit, int(r.window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed := resultSlice[0].(int64) == 1
	remaining := int(resultSlice[1].(int64))
	resetIn := time.Duration(resultSlice[2].(int64)) * time.Second

	return &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetIn:   resetIn,
		Limit:     r.limit,
	}, nil
}

// Reset clears the window for a key (admin operation).
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", r.prefix, key)).Err()
}
