package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/answerhub/community-api/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testRedis(tb testing.TB) *redis.Client {
	tb.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		tb.Skip("TEST_REDIS_ADDR not set, skipping redis-backed test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		tb.Fatalf("redis ping: %v", err)
	}
	tb.Cleanup(func() { _ = client.Close() })
	return client
}

func clearCooldowns(tb testing.TB, rdb *redis.Client, userID uuid.UUID) {
	tb.Helper()
	ctx := context.Background()
	for _, scope := range []string{ratelimiter.ScopeGlobal, ratelimiter.ScopeQuestion, ratelimiter.ScopeComment} {
		_ = ratelimiter.ClearRateLimit(ctx, rdb, userID, scope)
	}
}

func TestQuestionRateLimitArmsBothCooldowns(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	userID := uuid.New()
	t.Cleanup(func() { clearCooldowns(t, rdb, userID) })

	svc := &questionService{redisClient: rdb, globalLimit: time.Minute, createLimit: time.Minute}

	cleanup, err := svc.checkCreateRateLimit(ctx, userID)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}

	var rlErr *ratelimiter.RateLimitError
	if _, err := svc.checkCreateRateLimit(ctx, userID); !errors.As(err, &rlErr) {
		t.Fatalf("second check err = %v, want RateLimitError", err)
	}

	// Failed creations roll the cooldowns back entirely
	cleanup()
	if _, err := svc.checkCreateRateLimit(ctx, userID); err != nil {
		t.Fatalf("check after cleanup: %v", err)
	}
}

func TestQuestionRateLimitRollsBackGlobalKey(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	userID := uuid.New()
	t.Cleanup(func() { clearCooldowns(t, rdb, userID) })

	// Arm only the question cooldown, as if a question was just created
	// and the shorter global cooldown already expired.
	if _, err := ratelimiter.CheckAndSetRateLimit(ctx, rdb, userID, ratelimiter.ScopeQuestion, time.Minute); err != nil {
		t.Fatalf("arm question cooldown: %v", err)
	}

	svc := &questionService{redisClient: rdb, globalLimit: time.Minute, createLimit: time.Minute}

	var rlErr *ratelimiter.RateLimitError
	if _, err := svc.checkCreateRateLimit(ctx, userID); !errors.As(err, &rlErr) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}

	// The global key must not stay armed when the question cooldown tripped,
	// otherwise the user is locked out of commenting too.
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, rdb, userID, ratelimiter.ScopeGlobal, time.Minute)
	if err != nil {
		t.Fatalf("recheck global cooldown: %v", err)
	}
	if !allowed {
		t.Error("global cooldown left armed after question cooldown tripped")
	}
}

func TestCommentRateLimitRollsBackGlobalKey(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	userID := uuid.New()
	t.Cleanup(func() { clearCooldowns(t, rdb, userID) })

	if _, err := ratelimiter.CheckAndSetRateLimit(ctx, rdb, userID, ratelimiter.ScopeComment, time.Minute); err != nil {
		t.Fatalf("arm comment cooldown: %v", err)
	}

	svc := &commentService{redisClient: rdb, globalLimit: time.Minute, createLimit: time.Minute}

	var rlErr *ratelimiter.RateLimitError
	if _, err := svc.checkCreateRateLimit(ctx, userID); !errors.As(err, &rlErr) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}

	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, rdb, userID, ratelimiter.ScopeGlobal, time.Minute)
	if err != nil {
		t.Fatalf("recheck global cooldown: %v", err)
	}
	if !allowed {
		t.Error("global cooldown left armed after comment cooldown tripped")
	}
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	svc := &questionService{globalLimit: time.Minute, createLimit: time.Minute}
	if _, err := svc.checkCreateRateLimit(context.Background(), uuid.New()); err != nil {
		t.Fatalf("nil redis client should disable limiting, got %v", err)
	}
}
