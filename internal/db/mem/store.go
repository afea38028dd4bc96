// Package mem provides an in-process key-value store with TTL semantics.
// It is the default cache backend; single-instance deployments need nothing
// heavier, and tests get a deterministic clock via NewStoreWithClock.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/dinerank/dinerank/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// Store implements db.Store in process memory. Safe for concurrent use;
// each write replaces the whole entry under its key.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates an in-memory store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an in-memory store with an injected clock.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{entries: make(map[string]entry), now: now}
}

// Get retrieves a value by key. Expired entries are treated as absent and
// removed lazily.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have replaced it.
		if cur, still := s.entries[key]; still && !cur.expiresAt.IsZero() && !s.now().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, db.ErrKeyNotFound
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.put(key, value, time.Time{})
	return nil
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.put(key, value, s.now().Add(ttl))
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady always succeeds; process memory has no startup delay.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

func (s *Store) put(key string, value []byte, expiresAt time.Time) {
	data := make([]byte, len(value))
	copy(data, value)
	s.mu.Lock()
	s.entries[key] = entry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()
}

// Len returns the number of live and expired-but-unreclaimed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
