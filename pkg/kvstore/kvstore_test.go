package kvstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeys(t *testing.T) {
	keys := Keys{Namespace: "storefront"}
	if got := keys.CartKey("sess-1"); got != "storefront:cart:sess-1" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := keys.WishlistKey("sess-1"); got != "storefront:wishlist:sess-1" {
		t.Fatalf("unexpected wishlist key %s", got)
	}
	if got := (Keys{}).CartKey("sess-1"); got != "storefront:cart:sess-1" {
		t.Fatalf("empty namespace should fall back, got %s", got)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Read(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss on empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Write(ctx, "k", "v1"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	value, ok, err := store.Read(ctx, "k")
	if err != nil || !ok || value != "v1" {
		t.Fatalf("unexpected read value=%q ok=%v err=%v", value, ok, err)
	}

	// last writer wins
	if err := store.Write(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, _, _ = store.Read(ctx, "k")
	if value != "v2" {
		t.Fatalf("expected v2, got %q", value)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Read(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestRedisStoreReadMissIsNotError(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock}

	if _, ok, err := store.Read(ctx, "absent"); err != nil || ok {
		t.Fatalf("redis.Nil should read as a miss, ok=%v err=%v", ok, err)
	}

	if err := store.Write(ctx, "k", "v"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	value, ok, err := store.Read(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("unexpected read value=%q ok=%v err=%v", value, ok, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Read(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
