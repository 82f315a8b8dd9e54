package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-form/internal/config"
	"github.com/magabrotheeeer/subscription-form/internal/form"
)

var _ form.Guard = (*Guard)(nil)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestGuard_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	g := NewGuard(c, time.Minute)

	token, ok, err := g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	stored, err := mr.Get(guardPrefix + "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, token, stored)
	assert.Equal(t, time.Minute, mr.TTL(guardPrefix+"a@b.co"))

	_, ok, err = g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, "a@b.co", token))
	assert.False(t, mr.Exists(guardPrefix+"a@b.co"))

	_, ok, err = g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	g := NewGuard(c, 5*time.Second)

	_, ok, err := g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(6 * time.Second)

	_, ok, err = g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_LateReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	g := NewGuard(c, time.Second)

	first, ok, err := g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	second, ok, err := g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	// первый держатель просрочен, его Release не должен снять чужой токен
	require.NoError(t, g.Release(ctx, "a@b.co", first))

	_, ok, err = g.Acquire(ctx, "a@b.co")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := mr.Get(guardPrefix + "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, second, stored)

	require.NoError(t, g.Release(ctx, "a@b.co", second))
	assert.False(t, mr.Exists(guardPrefix+"a@b.co"))
}

func TestGuard_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	g := NewGuard(c, time.Minute)
	mr.Close()

	_, ok, err := g.Acquire(ctx, "a@b.co")
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Error(t, g.Release(ctx, "a@b.co", "token"))
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  200 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
