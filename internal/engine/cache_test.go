package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("channel", "@example")
		k2 := CacheKey("channel", "@example")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("channel", "@golang")
		k2 := CacheKey("channel", "@rustlang")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "gi:" {
			t.Errorf("expected gi: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheSet(ctx, key, "UC123")

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if got != "UC123" {
		t.Errorf("got %q, want %q", got, "UC123")
	}
}

func TestCacheExpiration(t *testing.T) {
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSet(ctx, key, "temp")
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 3, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), fmt.Sprintf("v%d", i))
	}

	count := 0
	resolveCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGet(ctx, key)
	if _, misses := CacheStats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	CacheSet(ctx, key, "x")
	CacheGet(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestCacheRedisTier(t *testing.T) {
	mr := miniredis.RunT(t)
	InitCache("redis://"+mr.Addr(), 1*time.Minute, 100, 5*time.Minute)
	t.Cleanup(func() { InitCache("", 1*time.Minute, 100, 5*time.Minute) })

	ctx := context.Background()
	key := CacheKey("channel", "@example")
	CacheSet(ctx, key, "UCexample")

	if got, err := mr.Get(key); err != nil || got != "UCexample" {
		t.Fatalf("redis value = %q, %v", got, err)
	}

	// Drop L1 so the next read has to come from Redis.
	resolveCache.l1.Delete(key)
	got, ok := CacheGet(ctx, key)
	if !ok || got != "UCexample" {
		t.Errorf("CacheGet() = %q, %v; want L2 hit", got, ok)
	}
	if _, ok := resolveCache.l1.Load(key); !ok {
		t.Error("L2 hit should repopulate L1")
	}
}

func TestCacheBadRedisURL(t *testing.T) {
	InitCache("not-a-url", 1*time.Minute, 100, 5*time.Minute)
	if resolveCache.rdb != nil {
		t.Error("invalid URL should leave L2 disabled")
	}
}
