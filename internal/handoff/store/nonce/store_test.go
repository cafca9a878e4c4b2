package nonce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "relay/pkg/domain-errors"

	"relay/internal/handoff/signer"
	"relay/internal/handoff/store/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.InMemoryStore) {
	t.Helper()
	backend := kv.NewInMemory()
	return New(backend, signer.New("test-secret"), 10*time.Minute, 3), backend
}

func TestStore_CreateStartsInCreated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)

	raw, err := store.Resolve(ctx, signed, StateCreated)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestStore_ResolveStateChecks(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)
	raw, err := store.Resolve(ctx, signed, StateCreated)
	require.NoError(t, err)

	t.Run("created nonce does not resolve as redirected", func(t *testing.T) {
		_, err := store.Resolve(ctx, signed, StateRedirected)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
	})

	t.Run("any skips the state check", func(t *testing.T) {
		got, err := store.Resolve(ctx, signed, StateAny)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("after redirect only redirected matches", func(t *testing.T) {
		require.NoError(t, store.MarkRedirected(ctx, raw))
		_, err := store.Resolve(ctx, signed, StateCreated)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
		got, err := store.Resolve(ctx, signed, StateRedirected)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})
}

func TestStore_ResolveRejectsBadEnvelopes(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)

	for name, input := range map[string]string{
		"empty":          "",
		"unsigned":       "not-an-envelope",
		"tampered":       "x" + signed[1:],
		"foreign secret": signer.New("other-secret").Envelope("deadbeef"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Resolve(ctx, input, StateAny)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
		})
	}
}

func TestStore_ResolveUnknownNonce(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// Valid envelope over a nonce that was never reserved.
	signed := signer.New("test-secret").Envelope("0123456789abcdef")
	_, err := store.Resolve(ctx, signed, StateAny)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	backend := kv.NewInMemory().WithClock(func() time.Time { return now })
	store := New(backend, signer.New("test-secret"), 10*time.Minute, 3)

	signed, err := store.Create(ctx)
	require.NoError(t, err)

	now = now.Add(10*time.Minute + time.Second)
	_, err = store.Resolve(ctx, signed, StateAny)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce),
		"an expired nonce is indistinguishable from an unknown one")
}

func TestStore_AssignUserAndUserIDOf(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)
	raw, err := store.Resolve(ctx, signed, StateCreated)
	require.NoError(t, err)

	t.Run("sentinel lookup before assignment", func(t *testing.T) {
		_, err := store.UserIDOf(ctx, raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("reserved values are not assignable", func(t *testing.T) {
		assert.True(t, dErrors.HasCode(store.AssignUser(ctx, raw, "CREATED"), dErrors.CodeInternal))
		assert.True(t, dErrors.HasCode(store.AssignUser(ctx, raw, "REDIRECTED"), dErrors.CodeInternal))
	})

	t.Run("assignment is readable back", func(t *testing.T) {
		require.NoError(t, store.AssignUser(ctx, raw, "user-42"))
		userID, err := store.UserIDOf(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, "user-42", userID)
	})
}

func TestStore_Forget(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)
	raw, err := store.Resolve(ctx, signed, StateCreated)
	require.NoError(t, err)

	require.NoError(t, store.Forget(ctx, raw))
	require.NoError(t, store.Forget(ctx, raw))

	_, err = store.Resolve(ctx, signed, StateAny)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidNonce))
}

func TestStore_SignedOfRoundTrips(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	signed, err := store.Create(ctx)
	require.NoError(t, err)
	raw, err := store.Resolve(ctx, signed, StateCreated)
	require.NoError(t, err)

	assert.Equal(t, signed, store.SignedOf(raw))
}
