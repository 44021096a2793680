package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = mc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), -time.Second))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, mc.Delete(ctx, "k"))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheClearPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, RoutingKey("ward-1"), []byte("team-a"), time.Minute))
	require.NoError(t, mc.Set(ctx, RoutingKey("ward-2"), []byte("team-b"), time.Minute))
	require.NoError(t, mc.Set(ctx, "other:key", []byte("kept"), time.Minute))

	require.NoError(t, mc.Clear(ctx, RoutingPattern()))

	_, err := mc.Get(ctx, RoutingKey("ward-1"))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, RoutingKey("ward-2"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	kept, err := mc.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), kept)
}
