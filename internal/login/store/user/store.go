// Package user persists first-party accounts created from provider profiles.
package user

import (
	"context"
	"time"
)

// Record is a stored first-party account. Accounts created through a handoff
// carry the provider identity; PasswordHash is set only for accounts that
// also use password login.
type Record struct {
	ID             string
	Email          string
	Name           string
	Avatar         string
	PasswordHash   string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Store is the account persistence boundary.
//
// Error contract: Find methods return sentinel.ErrNotFound (wrapped) for a
// missing account; Create returns sentinel.ErrConflict when the email is
// already registered; infrastructure failures come back wrapped with context.
type Store interface {
	Create(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	FindByEmail(ctx context.Context, email string) (*Record, error)
	FindByProvider(ctx context.Context, provider, providerUserID string) (*Record, error)
}
