package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikedList_AddIsIdempotent(t *testing.T) {
	liked := NewLikedList(newMemKV())
	ctx := context.Background()

	require.NoError(t, liked.Add(ctx, "p1"))
	require.NoError(t, liked.Add(ctx, "p1"))
	require.NoError(t, liked.Add(ctx, "p2"))

	ids, err := liked.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

func TestLikedList_Remove(t *testing.T) {
	liked := NewLikedList(newMemKV())
	ctx := context.Background()
	require.NoError(t, liked.Add(ctx, "p1"))
	require.NoError(t, liked.Add(ctx, "p2"))

	require.NoError(t, liked.Remove(ctx, "p1"))
	ids, err := liked.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestLikedList_ProductsDropsUnresolvableIDs(t *testing.T) {
	liked := NewLikedList(newMemKV())
	ctx := context.Background()
	require.NoError(t, liked.Add(ctx, "p1"))
	require.NoError(t, liked.Add(ctx, "gone"))

	products, err := liked.Products(ctx, plantCatalog())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Monstera", products[0].Title)
}

func TestLikedList_MalformedContentDegradesToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.data[LikedKey] = []byte(`not json`)

	ids, err := NewLikedList(kv).IDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
