// Package session holds the per-browser-session mirror of the most recently
// issued nonce. The mirror is a same-origin convenience read for the issuing
// context only; protocol decisions that cross a security boundary never
// consult it.
package session

import (
	"context"
	"sync"
	"time"

	"relay/pkg/requestcontext"
)

// Mirror is a short-lived scratch copy of the latest issued signed nonce.
type Mirror interface {
	// Set stores the signed nonce together with a wall-clock timestamp.
	Set(ctx context.Context, signedNonce string) error
	// Get returns the stored nonce if it is still valid. An expired entry is
	// cleared before reporting absence.
	Get(ctx context.Context) (string, bool)
	// IsValid reports whether both fields are present and the entry is
	// within its TTL.
	IsValid(ctx context.Context) bool
	// Clear removes both fields.
	Clear(ctx context.Context) error
}

// InMemoryMirror simulates one browser session. Used by tests and non-HTTP
// callers.
type InMemoryMirror struct {
	mu    sync.Mutex
	ttl   time.Duration
	nonce string
	setAt time.Time
	hasTS bool
}

// NewInMemory constructs an empty mirror with the given TTL.
func NewInMemory(ttl time.Duration) *InMemoryMirror {
	return &InMemoryMirror{ttl: ttl}
}

func (m *InMemoryMirror) Set(ctx context.Context, signedNonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonce = signedNonce
	m.setAt = requestcontext.Now(ctx)
	m.hasTS = true
	return nil
}

func (m *InMemoryMirror) Get(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.validLocked(ctx) {
		m.nonce = ""
		m.hasTS = false
		return "", false
	}
	return m.nonce, true
}

func (m *InMemoryMirror) IsValid(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked(ctx)
}

func (m *InMemoryMirror) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonce = ""
	m.hasTS = false
	return nil
}

func (m *InMemoryMirror) validLocked(ctx context.Context) bool {
	if m.nonce == "" || !m.hasTS {
		return false
	}
	return requestcontext.Now(ctx).Sub(m.setAt) <= m.ttl
}

var _ Mirror = (*InMemoryMirror)(nil)
