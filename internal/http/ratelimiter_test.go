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
		if allowed, _ := rl.Allow(key); !allowed {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	allowed, wait := rl.Allow(key)
	if allowed {
		t.Fatalf("expected fourth request to be denied")
	}
	if wait <= 0 || wait > time.Second {
		t.Fatalf("expected a retry delay within one second, got %s", wait)
	}

	current = current.Add(time.Second)

	if allowed, _ := rl.Allow(key); !allowed {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterKeepsClientsSeparate(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if allowed, _ := rl.Allow("a"); !allowed {
		t.Fatalf("expected first client to be allowed")
	}
	if allowed, _ := rl.Allow("a"); allowed {
		t.Fatalf("expected first client to be limited")
	}
	if allowed, _ := rl.Allow("b"); !allowed {
		t.Fatalf("expected second client to have its own budget")
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, 1, time.Hour)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	rl.Allow("idle")
	rl.Allow("")
	if rl.size() != 2 {
		t.Fatalf("expected two tracked clients, got %d", rl.size())
	}

	current = current.Add(2 * time.Hour)
	rl.pruneStale()

	if rl.size() != 0 {
		t.Fatalf("expected idle clients to be pruned, got %d", rl.size())
	}
}
