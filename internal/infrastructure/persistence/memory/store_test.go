package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set(ctx, "k1", payload{Name: "a", Count: 2}))

	var got payload
	require.NoError(t, store.Get(ctx, "k1", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
	assert.Equal(t, 1, store.Len())
}

func TestStoreGet_NotFound(t *testing.T) {
	store := NewStore()

	var dest map[string]any
	err := store.Get(context.Background(), "missing", &dest)
	assert.ErrorIs(t, err, recordstore.ErrNotFound)
}

func TestStoreGet_Malformed(t *testing.T) {
	store := NewStore()
	store.SetRaw("bad", []byte(`{not json`))

	var dest map[string]any
	err := store.Get(context.Background(), "bad", &dest)
	assert.ErrorIs(t, err, recordstore.ErrSerialization)
}

func TestStoreRemove(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v"))
	require.NoError(t, store.Remove(ctx, "k1"))

	var dest string
	assert.ErrorIs(t, store.Get(ctx, "k1", &dest), recordstore.ErrNotFound)

	// Removing a missing key is not an error.
	assert.NoError(t, store.Remove(ctx, "k1"))
}

func TestStoreEmptyKey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Set(ctx, "", "v"), recordstore.ErrKeyEmpty)
	assert.ErrorIs(t, store.Get(ctx, "", nil), recordstore.ErrKeyEmpty)
	assert.ErrorIs(t, store.Remove(ctx, ""), recordstore.ErrKeyEmpty)
}
