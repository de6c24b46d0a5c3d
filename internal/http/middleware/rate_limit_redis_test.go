package middleware

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiterForTest(t *testing.T) (*miniredis.Miniredis, *RedisFixedWindowLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return m, NewRedisFixedWindowLimiter(client, "rl_test")
}

func TestRedisFixedWindowLimiterAllowAndDeny(t *testing.T) {
	_, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if allowed {
		t.Fatal("third request must be denied")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %v, want positive", retryAfter)
	}
}

func TestRedisFixedWindowLimiterWindowReset(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	if _, _, err := limiter.Allow(ctx, "k", 1, time.Second); err != nil {
		t.Fatalf("allow: %v", err)
	}
	allowed, _, err := limiter.Allow(ctx, "k", 1, time.Second)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("should be denied within window")
	}

	m.FastForward(2 * time.Second)

	allowed, _, err = limiter.Allow(ctx, "k", 1, time.Second)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed {
		t.Fatal("new window must admit the request")
	}
}

func TestRedisFixedWindowLimiterNilAndUnreachableClient(t *testing.T) {
	limiter := NewRedisFixedWindowLimiter(nil, "")
	if _, _, err := limiter.Allow(context.Background(), "k", 1, time.Second); err == nil {
		t.Fatal("expected nil client error")
	}

	badClient := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  20 * time.Millisecond,
		ReadTimeout:  20 * time.Millisecond,
		WriteTimeout: 20 * time.Millisecond,
	})
	t.Cleanup(func() { _ = badClient.Close() })
	limiter = NewRedisFixedWindowLimiter(badClient, "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, _, err := limiter.Allow(ctx, "k", 1, time.Second); err == nil {
		t.Fatal("expected backend error")
	}
}
