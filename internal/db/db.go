package db

import (
	"context"
	"time"
)

// Store is the cache store facade. Consumers depend on the narrow
// sub-interfaces; the composition root wires a concrete driver.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides key-value operations with TTL semantics. Writes replace
// the whole entry under a key; entries are never updated in place.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
