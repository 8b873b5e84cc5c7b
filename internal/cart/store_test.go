package cart

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = kv.Get(ctx, CartKey)
	assert.ErrorIs(t, err, ErrKeyMissing)

	require.NoError(t, kv.Set(ctx, CartKey, []byte(`[{"productId":"p1","quantity":2}]`)))
	data, err := kv.Get(ctx, CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, string(data))

	require.NoError(t, kv.Del(ctx, CartKey))
	_, err = kv.Get(ctx, CartKey)
	assert.ErrorIs(t, err, ErrKeyMissing)
	// Deleting a missing key is not an error.
	require.NoError(t, kv.Del(ctx, CartKey))
}

func TestFileKV_KeysAreIndependent(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, CartKey, []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, LikedKey, []byte(`["p9"]`)))
	require.NoError(t, kv.Del(ctx, CartKey))

	data, err := kv.Get(ctx, LikedKey)
	require.NoError(t, err)
	assert.Equal(t, `["p9"]`, string(data))
}

func TestEntryStore_SkipsInvalidEntries(t *testing.T) {
	kv := newMemKV()
	kv.data[CartKey] = []byte(`[{"productId":"p1","quantity":2},{"productId":"","quantity":1},{"productId":"p2","quantity":0}]`)

	entries, err := NewEntryStore(kv).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 2}}, entries)
}

func TestEntryStore_SurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	store := NewEntryStore(kv)
	require.NoError(t, store.Save(ctx, []Entry{{ProductID: "p1", Quantity: 3}}))

	// A fresh KV over the same directory stands in for a new process.
	kv2, err := NewFileKV(dir)
	require.NoError(t, err)
	entries, err := NewEntryStore(kv2).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: "p1", Quantity: 3}}, entries)
}

func TestNewFileKV_CreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/profile"
	_, err := NewFileKV(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
