// Package cache provides a thread-safe in-memory TTL cache shared by all
// upstream fetchers. Entries are evicted lazily: a read past expiry removes
// the entry and reports a miss.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TTL classes per data kind. Callers pick the TTL; the cache is kind-agnostic.
const (
	TTLPrices       = 6 * time.Hour       // retail prices move within a day
	TTLVerdict      = 12 * time.Hour      // verdicts follow prices
	TTLLaunchIntel  = 7 * 24 * time.Hour  // launch rumors shift slowly
	TTLPriceHistory = 24 * time.Hour      // historical stats barely move
	TTLDeals        = 6 * time.Hour       // coupons and bank offers rotate with prices
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type entry struct {
	expiresAt time.Time
	value     any
}

// Store is a mutex-guarded TTL key/value store.
type Store struct {
	entries map[string]entry
	now     Clock
	mu      sync.Mutex
}

// New creates a Store backed by the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Store with a caller-supplied clock.
func NewWithClock(now Clock) *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value stored under key, or false if absent or expired.
// An expired entry is removed before returning.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// Len returns the number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get retrieves a typed value from the store. A value of the wrong type is
// treated as a miss.
func Get[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Key builds a composite cache key of the form "kind:REGION:normalized query".
func Key(kind, region, query string) string {
	return fmt.Sprintf("%s:%s:%s", kind, strings.ToUpper(region), strings.ToLower(strings.TrimSpace(query)))
}
