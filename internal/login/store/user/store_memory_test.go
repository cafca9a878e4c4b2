package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/pkg/platform/sentinel"
)

func record(id, email string) *Record {
	return &Record{
		ID:             id,
		Email:          email,
		Provider:       "google",
		ProviderUserID: "prov-" + id,
		CreatedAt:      time.Now(),
	}
}

func TestInMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Create(ctx, record("u1", "ada@example.com")))

	byID, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := store.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byProvider, err := store.FindByProvider(ctx, "google", "prov-u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", byProvider.ID)
}

func TestInMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Create(ctx, record("u1", "ada@example.com")))
	err := store.Create(ctx, record("u2", "Ada@Example.com"))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryStore_Misses(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	_, err := store.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = store.FindByEmail(ctx, "nope@example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = store.FindByProvider(ctx, "google", "nope")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Create(ctx, record("u1", "ada@example.com")))
	first, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	first.Email = "mutated@example.com"

	second, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", second.Email)
}
