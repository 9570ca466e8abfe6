package kv_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/storage/kv"
)

// newMemory 创建内存 KV，失败时终止测试.
func newMemory(t *testing.T) kv.KVStore {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	return store
}

// newRedis 启动 miniredis 并创建 Redis KV.
func newRedis(t *testing.T) kv.KVStore {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}

	t.Cleanup(srv.Close)

	cfg := &configs.RedisKVConfig{Addr: srv.Addr(), Password: "", DB: 0}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeRedis, cfg)
	if err != nil {
		t.Fatalf("create redis kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testStores(t *testing.T) map[string]kv.KVStore {
	t.Helper()

	return map[string]kv.KVStore{
		"memory": newMemory(t),
		"redis":  newRedis(t),
	}
}

func TestKVSetGetDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, "artifact:a1", []byte("v1"), 0); err != nil {
				t.Fatalf("set: %v", err)
			}

			got, err := store.Get(ctx, "artifact:a1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			if string(got) != "v1" {
				t.Fatalf("unexpected value: %s", got)
			}

			if err := store.Delete(ctx, "artifact:a1"); err != nil {
				t.Fatalf("delete: %v", err)
			}

			_, err = store.Get(ctx, "artifact:a1")
			if !errors.Is(err, kv.ErrKeyNotFound) {
				t.Fatalf("expected ErrKeyNotFound, got %v", err)
			}
		})
	}
}

func TestKVSetNX(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := store.SetNX(ctx, "idx:h1", []byte("a1"), 0)
			if err != nil {
				t.Fatalf("setnx: %v", err)
			}

			if !ok {
				t.Fatal("expected first setnx to win")
			}

			ok, err = store.SetNX(ctx, "idx:h1", []byte("a2"), 0)
			if err != nil {
				t.Fatalf("setnx second: %v", err)
			}

			if ok {
				t.Fatal("expected second setnx to lose")
			}

			got, err := store.Get(ctx, "idx:h1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			if string(got) != "a1" {
				t.Fatalf("setnx must not overwrite, got %s", got)
			}
		})
	}
}

func TestKVKeysPattern(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"artifact:a1", "artifact:a2", "other:x"} {
				if err := store.Set(ctx, k, []byte("v"), 0); err != nil {
					t.Fatalf("set %s: %v", k, err)
				}
			}

			keys, err := store.Keys(ctx, "artifact:*")
			if err != nil {
				t.Fatalf("keys: %v", err)
			}

			sort.Strings(keys)

			if len(keys) != 2 || keys[0] != "artifact:a1" || keys[1] != "artifact:a2" {
				t.Fatalf("unexpected keys: %v", keys)
			}
		})
	}
}

func TestMemoryKVTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	if err := store.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	// TTL 包装以秒为粒度，过期判定为 now >= expiry
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	if string(got) != "v" {
		t.Fatalf("unexpected value: %s", got)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := store.Get(ctx, "k"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}

	exists, err := store.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if exists {
		t.Fatal("expired key must not exist")
	}
}

func TestRedisKVTTL(t *testing.T) {
	ctx := context.Background()

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	defer srv.Close()

	cfg := &configs.RedisKVConfig{Addr: srv.Addr()}

	store, err := kv.NewKVStore(ctx, kv.KVTypeRedis, cfg)
	if err != nil {
		t.Fatalf("create redis kv: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// miniredis 手动推进时钟
	srv.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "k"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}
