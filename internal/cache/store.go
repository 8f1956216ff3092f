// Package cache provides the in-memory TTL caches shared across requests:
// a selection tier (24h), a content tier (1h, keyed by content hash so a
// changed file misses naturally), and a metadata tier (15min).
//
// The store is constructor-injected, never a package-level singleton, so
// tests can supply an isolated instance and a fake clock. Expiry is
// checked on the single key being read; an optional background reaper
// handles physical eviction. An expired entry is never returned, whether
// or not the reaper got to it.
package cache

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time for TTL checks. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

const shardCount = 16

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type shard[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
}

// Store is a sharded TTL map. The zero value is not usable; call New.
type Store[V any] struct {
	shards [shardCount]shard[V]
	clock  Clock
}

// New creates a store using the given clock. A nil clock means SystemClock.
func New[V any](clock Clock) *Store[V] {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Store[V]{clock: clock}
	for i := range s.shards {
		s.shards[i].entries = make(map[string]entry[V])
	}
	return s
}

// fnv-1a; good enough to spread keys across 16 shards.
func shardIndex(key string) int {
	h := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return int(h % shardCount)
}

// Get returns the live value for key. Expired entries are evicted on the
// spot and reported as a miss.
func (s *Store[V]) Get(key string) (V, bool) {
	sh := &s.shards[shardIndex(key)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(sh.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Non-positive ttl stores nothing.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	sh := &s.shards[shardIndex(key)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[key] = entry[V]{value: value, expiresAt: s.clock.Now().Add(ttl)}
}

// Delete removes key if present.
func (s *Store[V]) Delete(key string) {
	sh := &s.shards[shardIndex(key)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.entries, key)
}

// Len counts live entries across all shards.
func (s *Store[V]) Len() int {
	now := s.clock.Now()
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for _, e := range sh.entries {
			if now.Before(e.expiresAt) {
				total++
			}
		}
		sh.mu.Unlock()
	}
	return total
}

// Sweep evicts every expired entry and reports how many were removed.
func (s *Store[V]) Sweep() int {
	now := s.clock.Now()
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k, e := range sh.entries {
			if !now.Before(e.expiresAt) {
				delete(sh.entries, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// StartReaper sweeps the store every interval until ctx is done. It
// replaces per-access full-table scans; reads stay O(1).
func (s *Store[V]) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
