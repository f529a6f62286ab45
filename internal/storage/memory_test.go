package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, st.Set(ctx, "a", []byte("one")))
	v, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	require.NoError(t, st.Set(ctx, "a", []byte("two")))
	v, err = st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)

	require.NoError(t, st.Delete(ctx, "a"))
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, st.Delete(ctx, "a"))
}

func TestMemoryStore_ValueIsolation(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	in := []byte("original")
	require.NoError(t, st.Set(ctx, "a", in))
	in[0] = 'X'

	v, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), v)

	// Mutating a returned value must not leak back into the store.
	v[0] = 'Y'
	again, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryStore_ScanPrefix(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Set(ctx, "workorder/2", []byte("b")))
	require.NoError(t, st.Set(ctx, "workorder/1", []byte("a")))
	require.NoError(t, st.Set(ctx, "tx/1", []byte("c")))

	entries, err := st.ScanPrefix(ctx, "workorder/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "workorder/1", entries[0].Key)
	assert.Equal(t, "workorder/2", entries[1].Key)

	empty, err := st.ScanPrefix(ctx, "payroll/")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
