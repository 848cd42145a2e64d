package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-wishlist/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return Wrap(raw), mr
}

func TestGetReturnsErrMissForAbsentKeys(t *testing.T) {
	client, _ := newTestClient(t)

	if _, err := client.Get(context.Background(), "wl:nothing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestSetWithTTLExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("unexpected get %q %v", got, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := client.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected key to expire, got %v", err)
	}
}

func TestSetNXOnlyOnce(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	ok, err := client.SetNX(ctx, "lock", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx should succeed: %v %v", ok, err)
	}
	ok, err = client.SetNX(ctx, "lock", "b", time.Minute)
	if err != nil || ok {
		t.Fatalf("second setnx should fail: %v %v", ok, err)
	}
	if err := client.Del(ctx, "lock"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	ok, _ = client.SetNX(ctx, "lock", "c", time.Minute)
	if !ok {
		t.Fatalf("setnx after delete should succeed")
	}
}

func TestMGetReportsMisses(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	if err := mr.Set("a", "1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := mr.Set("c", "3"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	values, found, err := client.MGet(ctx, "a", "b", "c")
	if err != nil {
		t.Fatalf("mget failed: %v", err)
	}
	if !found[0] || found[1] || !found[2] {
		t.Fatalf("unexpected found flags %v", found)
	}
	if values[0] != "1" || values[2] != "3" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("session:abc", "key-1"); got != "wl:idempotency:session:abc:key-1" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.CatalogKey("en-US", 42); got != "wl:catalog:en-US:42" {
		t.Fatalf("unexpected catalog key %s", got)
	}
	if got := client.IdempotencyKey("", "id"); got != "wl:idempotency:id" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on empty client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op: %v", err)
	}
}
