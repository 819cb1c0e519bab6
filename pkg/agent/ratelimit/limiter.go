package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"kanzlei-ai-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// CounterStore is the minimal counter surface the limiter needs. Redis in
// production, an in-memory fake in tests.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RedisStore adapts a redis client to the CounterStore interface.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
	// Message is the user-facing refusal text, set only on denial.
	Message string
	// Degraded is set when the counter store was unreachable and the
	// request was let through unchecked.
	Degraded bool
}

// Limiter enforces a fixed window per-user run quota. When the store is
// down the limiter fails open: agent availability outranks quota precision,
// but every degraded decision is marked and logged.
type Limiter struct {
	store    CounterStore
	limit    int
	window   time.Duration
	log      logger.ILogger
	degraded atomic.Bool
	now      func() time.Time
}

func NewLimiter(store CounterStore, limit int, window time.Duration, log logger.ILogger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		log:    log,
		now:    time.Now,
	}
}

// Check consumes one slot for the user and reports whether the run may
// proceed. Counting is INCR-then-EXPIRE on the first hit of each window.
func (l *Limiter) Check(ctx context.Context, userID string) Decision {
	now := l.now()
	windowStart := now.Truncate(l.window)
	resetAt := windowStart.Add(l.window)
	key := fmt.Sprintf("agent:ratelimit:%s:%d", userID, windowStart.Unix())

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		if l.degraded.CompareAndSwap(false, true) {
			l.log.Error("ratelimit", "counter store unreachable, failing open", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return Decision{Allowed: true, Remaining: 0, Limit: l.limit, ResetAt: resetAt, Degraded: true}
	}

	if l.degraded.CompareAndSwap(true, false) {
		l.log.Info("ratelimit", "counter store recovered", nil)
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window+time.Minute); err != nil {
			l.log.Warn("ratelimit", "failed to set window expiry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	decision := Decision{
		Allowed:   count <= int64(l.limit),
		Remaining: remaining,
		Limit:     l.limit,
		ResetAt:   resetAt,
	}
	if !decision.Allowed {
		decision.Message = fmt.Sprintf(
			"Sie haben das Anfragelimit von %d Anfragen erreicht. Ab %s Uhr können Sie Helena wieder nutzen.",
			l.limit, resetAt.Format("15:04"))
	}
	return decision
}

// Degraded reports whether the last store access failed.
func (l *Limiter) Degraded() bool {
	return l.degraded.Load()
}
