package cron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/angelmondragon/storefront-wishlist/pkg/redis"
)

func newLockStore(t *testing.T) (*pkgredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return pkgredis.Wrap(raw), mr
}

func TestRedisLockIsExclusive(t *testing.T) {
	store, _ := newLockStore(t)
	ctx := context.Background()

	first, err := NewRedisLock(store, "wishlist:maintenance:lock:test", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "wishlist:maintenance:lock:test", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be rejected")

	require.NoError(t, first.Release(ctx))
	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockReleaseKeepsForeignHolder(t *testing.T) {
	store, mr := newLockStore(t)
	ctx := context.Background()

	lock, err := NewRedisLock(store, "lock", time.Minute)
	require.NoError(t, err)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, mr.Set("lock", "someone-else"))

	require.NoError(t, lock.Release(ctx))
	got, err := mr.Get("lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	store, mr := newLockStore(t)
	lock, err := NewRedisLock(store, "lock", time.Minute)
	require.NoError(t, err)
	_, err = lock.Acquire(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, lock.Release(context.Background()))
}
