package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is an injectable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStoreRoundTrip(t *testing.T) {
	clock := newFakeClock()
	store := New[[]string](clock)

	files := []string{"src/a.ts", "src/b.ts"}
	store.Set("k", files, time.Hour)

	got, ok := store.Get("k")
	if !ok {
		t.Fatal("expected hit before expiry")
	}
	if len(got) != 2 || got[0] != "src/a.ts" {
		t.Errorf("got %v, want %v", got, files)
	}
}

func TestStoreExpiry(t *testing.T) {
	clock := newFakeClock()
	store := New[string](clock)

	store.Set("k", "v", time.Hour)

	clock.Advance(59 * time.Minute)
	if _, ok := store.Get("k"); !ok {
		t.Error("entry should still be live at 59m")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := store.Get("k"); ok {
		t.Error("expired entry must never be returned")
	}
}

func TestStoreExpiryExactBoundary(t *testing.T) {
	clock := newFakeClock()
	store := New[int](clock)

	store.Set("k", 1, time.Hour)
	clock.Advance(time.Hour)

	// expiresAt == now counts as expired.
	if _, ok := store.Get("k"); ok {
		t.Error("entry at exact expiry time should be a miss")
	}
}

func TestStoreNonPositiveTTL(t *testing.T) {
	store := New[int](newFakeClock())
	store.Set("k", 1, 0)
	if _, ok := store.Get("k"); ok {
		t.Error("non-positive TTL should not store")
	}
}

func TestStoreSweep(t *testing.T) {
	clock := newFakeClock()
	store := New[int](clock)

	for i := 0; i < 10; i++ {
		store.Set(fmt.Sprintf("short-%d", i), i, time.Minute)
	}
	for i := 0; i < 5; i++ {
		store.Set(fmt.Sprintf("long-%d", i), i, time.Hour)
	}

	clock.Advance(10 * time.Minute)

	removed := store.Sweep()
	if removed != 10 {
		t.Errorf("Sweep removed %d, want 10", removed)
	}
	if got := store.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
}

func TestStoreDelete(t *testing.T) {
	store := New[int](newFakeClock())
	store.Set("k", 1, time.Hour)
	store.Delete("k")
	if _, ok := store.Get("k"); ok {
		t.Error("deleted entry should be gone")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := New[int](nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", i%20)
				store.Set(key, g*1000+i, time.Minute)
				store.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if store.Len() == 0 {
		t.Error("expected entries after concurrent writes")
	}
}
