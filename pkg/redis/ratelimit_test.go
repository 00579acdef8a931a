package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

// setupLimiter connects to the Redis named by TEST_REDIS_ADDR and clears the
// given key. Tests are skipped when the variable is unset.
func setupLimiter(t *testing.T, limit int, window time.Duration, key string) *RateLimiter {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, addr, "", 0, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, "test", limit, window)
	if err := limiter.Reset(ctx, key); err != nil {
		t.Fatalf("Failed to reset key: %v", err)
	}
	t.Cleanup(func() { _ = limiter.Reset(context.Background(), key) })
	return limiter
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := setupLimiter(t, 3, time.Minute, "allow-key")
	ctx := context.Background()

	for _, want := range []int{2, 1, 0} {
		res, err := limiter.Allow(ctx, "allow-key")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("Allow() = false, want true with %d remaining", want)
		}
		if res.Remaining != want {
			t.Errorf("Remaining = %d, want %d", res.Remaining, want)
		}
		if res.Limit != 3 {
			t.Errorf("Limit = %d, want %d", res.Limit, 3)
		}
	}

	res, err := limiter.Allow(ctx, "allow-key")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if res.Allowed {
		t.Error("Allow() over limit = true, want false")
	}
	if res.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", res.Remaining)
	}
	if res.ResetIn <= 0 || res.ResetIn > time.Minute {
		t.Errorf("ResetIn = %v, want within the window", res.ResetIn)
	}
}

func TestRateLimiterReset(t *testing.T) {
	limiter := setupLimiter(t, 1, time.Minute, "reset-key")
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, "reset-key"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	res, err := limiter.Allow(ctx, "reset-key")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if res.Allowed {
		t.Fatal("Allow() over limit = true, want false")
	}

	if err := limiter.Reset(ctx, "reset-key"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	res, err = limiter.Allow(ctx, "reset-key")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !res.Allowed {
		t.Error("Allow() after Reset() = false, want true")
	}
	if res.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", res.Remaining)
	}
}
