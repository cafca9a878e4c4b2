package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"relay/pkg/platform/sentinel"
)

// InMemoryStore keeps slots in a map for tests and single-instance
// deployments. Expired entries are dropped lazily on access.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

// NewInMemory constructs an empty in-memory slot store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock overrides the store's clock. Test hook.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, sentinel.ErrNotFound)
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", fmt.Errorf("key %q: %w", key, sentinel.ErrNotFound)
	}
	return e.value, nil
}

func (s *InMemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && !s.now().After(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *InMemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
