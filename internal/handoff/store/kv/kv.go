// Package kv defines the TTL key-value slot abstraction the handoff stores
// are built on. Both nonce and server-token slots are plain string values
// with an expiry; no richer structure is assumed of the backend.
//
// Error contract: Get returns sentinel.ErrNotFound (wrapped) for a missing or
// expired key; SetNX reports reservation failure via its bool, not an error;
// Delete is idempotent. Infrastructure failures come back wrapped with
// context.
package kv

import (
	"context"
	"time"
)

// Store is a TTL key-value slot store. All operations are single-key and
// atomic with respect to concurrent callers.
type Store interface {
	// Get returns the value at key, or sentinel.ErrNotFound if the key is
	// absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// SetNX writes value with ttl only if key is currently vacant. The bool
	// reports whether the reservation succeeded.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Set writes value with ttl unconditionally, refreshing any prior expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
