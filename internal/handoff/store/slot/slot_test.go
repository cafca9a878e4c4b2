package slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/internal/handoff/store/kv"
	"relay/pkg/platform/sentinel"
)

// fixedGenerator always yields the same id, forcing collisions.
func fixedGenerator(id string) Generator {
	return func() (string, error) { return id, nil }
}

func TestStore_ReserveAndRead(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewInMemory()
	store := New(backend, "test_", time.Minute, HexGenerator(16), 3)

	raw, err := store.Reserve(ctx, "INITIAL")
	require.NoError(t, err)
	assert.Len(t, raw, 32, "16 random bytes hex-encode to 32 chars")

	value, err := store.Read(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "INITIAL", value)

	// The prefix is applied underneath, not part of the raw id.
	backendValue, err := backend.Get(ctx, "test_"+raw)
	require.NoError(t, err)
	assert.Equal(t, "INITIAL", backendValue)
}

func TestStore_ReserveExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	store := New(kv.NewInMemory(), "test_", time.Minute, fixedGenerator("same"), 3)

	_, err := store.Reserve(ctx, "first")
	require.NoError(t, err)

	_, err = store.Reserve(ctx, "second")
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestStore_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	store := New(kv.NewInMemory(), "test_", time.Minute, HexGenerator(16), 1)

	raw, err := store.Reserve(ctx, "A")
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, raw, "B"))

	value, err := store.Read(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "B", value)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := New(kv.NewInMemory(), "test_", time.Minute, HexGenerator(16), 1)

	raw, err := store.Reserve(ctx, "A")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, raw))
	require.NoError(t, store.Delete(ctx, raw))

	_, err = store.Read(ctx, raw)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
