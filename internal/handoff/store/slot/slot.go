// Package slot factors the pattern shared by the nonce and server-token
// stores: a random high-entropy identifier bound to one TTL cache slot under
// a fixed key prefix. Keeping one implementation stops the two stores from
// drifting apart.
package slot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"relay/internal/handoff/store/kv"
	"relay/pkg/platform/sentinel"
)

// Generator produces a random slot identifier.
type Generator func() (string, error)

// HexGenerator returns a Generator yielding n random bytes, hex-encoded.
func HexGenerator(n int) Generator {
	return func() (string, error) {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate slot id: %w", err)
		}
		return hex.EncodeToString(buf), nil
	}
}

// Store manages "random id -> TTL slot" entries under one key prefix.
type Store struct {
	kv       kv.Store
	prefix   string
	ttl      time.Duration
	generate Generator
	attempts int
}

// New constructs a slot store. attempts bounds the reservation retry loop;
// values below 1 are clamped to 1.
func New(backend kv.Store, prefix string, ttl time.Duration, generate Generator, attempts int) *Store {
	if attempts < 1 {
		attempts = 1
	}
	return &Store{
		kv:       backend,
		prefix:   prefix,
		ttl:      ttl,
		generate: generate,
		attempts: attempts,
	}
}

// Reserve generates a fresh identifier and atomically claims its slot with
// the initial value. Generation retries on collision up to the configured
// attempt cap and then fails closed with sentinel.ErrConflict. Collisions are
// astronomically unlikely at this entropy, but the loop is still bounded.
func (s *Store) Reserve(ctx context.Context, initial string) (string, error) {
	for i := 0; i < s.attempts; i++ {
		raw, err := s.generate()
		if err != nil {
			return "", err
		}
		ok, err := s.kv.SetNX(ctx, s.prefix+raw, initial, s.ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return raw, nil
		}
	}
	return "", fmt.Errorf("slot reservation exhausted %d attempts: %w", s.attempts, sentinel.ErrConflict)
}

// Read returns the slot value for raw, or sentinel.ErrNotFound.
func (s *Store) Read(ctx context.Context, raw string) (string, error) {
	return s.kv.Get(ctx, s.prefix+raw)
}

// Write overwrites the slot value, refreshing its TTL.
func (s *Store) Write(ctx context.Context, raw, value string) error {
	return s.kv.Set(ctx, s.prefix+raw, value, s.ttl)
}

// Delete removes the slot. Idempotent.
func (s *Store) Delete(ctx context.Context, raw string) error {
	return s.kv.Delete(ctx, s.prefix+raw)
}
