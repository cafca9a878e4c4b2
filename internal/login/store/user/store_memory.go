package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"relay/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in maps for tests and dev.
type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*Record
	byEmail    map[string]*Record
	byProvider map[string]*Record
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[string]*Record),
		byEmail:    make(map[string]*Record),
		byProvider: make(map[string]*Record),
	}
}

func providerKey(provider, providerUserID string) string {
	return provider + ":" + providerUserID
}

func (s *InMemoryStore) Create(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(record.Email)
	if _, ok := s.byEmail[email]; ok {
		return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}
	clone := *record
	s.byID[record.ID] = &clone
	s.byEmail[email] = &clone
	if record.Provider != "" {
		s.byProvider[providerKey(record.Provider, record.ProviderUserID)] = &clone
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.byID[id]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, fmt.Errorf("user %q: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.byEmail[strings.ToLower(email)]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, fmt.Errorf("user by email: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByProvider(_ context.Context, provider, providerUserID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.byProvider[providerKey(provider, providerUserID)]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, fmt.Errorf("user by provider identity: %w", sentinel.ErrNotFound)
}

var _ Store = (*InMemoryStore)(nil)
