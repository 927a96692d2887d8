package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state, used here for the
// per-requester invitation quota counters.
// Implementations: Redis (production) or in-memory (local dev / tests).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Increment atomically adds one to the counter at key and returns the
	// new value. The ttl applies only when the key is created by this call.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
