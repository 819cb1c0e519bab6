package ratelimit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kanzlei-ai-be/internal/pkg/logger"
)

type fakeStore struct {
	counts  map[string]int64
	failing bool
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	if f.failing {
		return 0, errors.New("connection refused")
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	if f.failing {
		return errors.New("connection refused")
	}
	f.expires[key] = ttl
	return nil
}

func newTestLimiter(store CounterStore, limit int) *Limiter {
	l := NewLimiter(store, limit, time.Hour, logger.NewNopLogger())
	fixed := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	return l
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	store := newFakeStore()
	l := newTestLimiter(store, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := l.Check(ctx, "user-1")
		if !d.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
		if d.Remaining != 3-(i+1) {
			t.Errorf("call %d remaining = %d, want %d", i+1, d.Remaining, 3-(i+1))
		}
	}

	d := l.Check(ctx, "user-1")
	if d.Allowed {
		t.Error("call over limit should be denied")
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", d.Remaining)
	}
	if d.Limit != 3 {
		t.Errorf("limit = %d, want 3", d.Limit)
	}
	if d.ResetAt.IsZero() {
		t.Error("denied decision must carry a reset time")
	}
}

func TestLimiterDenialCarriesMessage(t *testing.T) {
	store := newFakeStore()
	l := newTestLimiter(store, 1)
	ctx := context.Background()

	first := l.Check(ctx, "user-1")
	if first.Message != "" {
		t.Errorf("allowed decision must not carry a refusal, got %q", first.Message)
	}

	denied := l.Check(ctx, "user-1")
	if denied.Allowed {
		t.Fatal("second call should be denied")
	}
	// Fixed clock: the 14:30 window resets at 15:00.
	if denied.Message == "" {
		t.Fatal("denied decision must carry the refusal text")
	}
	if !strings.Contains(denied.Message, "15:00") {
		t.Errorf("message should name the reset time, got %q", denied.Message)
	}
	if !strings.Contains(denied.Message, "1") {
		t.Errorf("message should name the limit, got %q", denied.Message)
	}
}

func TestLimiterIsolatesUsers(t *testing.T) {
	store := newFakeStore()
	l := newTestLimiter(store, 1)
	ctx := context.Background()

	if d := l.Check(ctx, "user-1"); !d.Allowed {
		t.Fatal("first user first call denied")
	}
	if d := l.Check(ctx, "user-2"); !d.Allowed {
		t.Error("second user must have an independent window")
	}
	if d := l.Check(ctx, "user-1"); d.Allowed {
		t.Error("first user second call should be denied")
	}
}

func TestLimiterFailsOpen(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	l := newTestLimiter(store, 1)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d := l.Check(ctx, "user-1")
		if !d.Allowed {
			t.Fatal("limiter must fail open when store is down")
		}
		if !d.Degraded {
			t.Fatal("degraded decisions must be marked")
		}
	}
	if !l.Degraded() {
		t.Error("limiter should report degraded state")
	}

	// Store comes back: counting resumes and the flag clears.
	store.failing = false
	d := l.Check(ctx, "user-1")
	if d.Degraded {
		t.Error("decision still degraded after recovery")
	}
	if l.Degraded() {
		t.Error("limiter still degraded after recovery")
	}
}

func TestLimiterSetsExpiryOnFirstHit(t *testing.T) {
	store := newFakeStore()
	l := newTestLimiter(store, 5)
	ctx := context.Background()

	l.Check(ctx, "user-1")
	l.Check(ctx, "user-1")

	if len(store.expires) != 1 {
		t.Fatalf("expected exactly one expiry call, got %d", len(store.expires))
	}
	for _, ttl := range store.expires {
		if ttl < time.Hour {
			t.Errorf("window key must outlive the window, ttl = %v", ttl)
		}
	}
}
