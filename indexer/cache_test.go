package indexer

import (
	"context"
	"testing"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cache.Close()) })
	return cache
}

func TestCache_LookupMissThenStoreThenHit(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	hash := ContentHash([]byte("package p\n"))

	_, ok, err := cache.Lookup(ctx, hash)
	require.NoError(t, err)
	require.False(t, ok)

	doc := &scip.Document{RelativePath: "p.go", Language: "go"}
	require.NoError(t, cache.Store(ctx, hash, doc))

	got, ok, err := cache.Lookup(ctx, hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, doc.RelativePath, got.RelativePath)
	require.Equal(t, doc.Language, got.Language)
}

func TestCache_StoreOverwritesExistingHash(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	hash := ContentHash([]byte("package p\n"))

	require.NoError(t, cache.Store(ctx, hash, &scip.Document{RelativePath: "old.go"}))
	require.NoError(t, cache.Store(ctx, hash, &scip.Document{RelativePath: "new.go"}))

	got, ok, err := cache.Lookup(ctx, hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new.go", got.RelativePath)
}

func TestContentHash_DifferentContentDifferentHash(t *testing.T) {
	require.NotEqual(t, ContentHash([]byte("a")), ContentHash([]byte("b")))
	require.Equal(t, ContentHash([]byte("a")), ContentHash([]byte("a")))
}
