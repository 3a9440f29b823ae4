package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, 3, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	key := "1.2.3.4"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Fatalf("expected fourth request to be denied")
	}

	current = current.Add(time.Second)

	if !rl.Allow(key) {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterReportsWaitUntilNextToken(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 0.5, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if allowed, _ := rl.Reserve("client"); !allowed {
		t.Fatalf("expected first request to be allowed")
	}

	allowed, wait := rl.Reserve("client")
	if allowed {
		t.Fatalf("expected second request to be denied")
	}
	if wait != 2*time.Second {
		t.Fatalf("expected wait of 2s, got %s", wait)
	}
	if got := retryAfterSeconds(wait); got != 2 {
		t.Fatalf("expected Retry-After 2, got %d", got)
	}
	if got := retryAfterSeconds(10 * time.Millisecond); got != 1 {
		t.Fatalf("expected Retry-After to round up to 1, got %d", got)
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if !rl.Allow("a") || !rl.Allow("b") {
		t.Fatalf("expected first request of each client to be allowed")
	}
	if rl.Allow("a") {
		t.Fatalf("expected client a to be limited")
	}
}

func TestRateLimiterPrunesStaleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	rl.Allow("stale")
	current = current.Add(2 * time.Minute)
	rl.pruneStale()

	rl.mu.Lock()
	_, ok := rl.clients["stale"]
	rl.mu.Unlock()
	if ok {
		t.Fatalf("expected stale client to be pruned")
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Close()
	rl.Close()
}
