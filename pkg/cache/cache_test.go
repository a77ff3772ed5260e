package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exercise runs the shared contract against any backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) hit=%v err=%v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(data, []byte("v1")) {
		t.Errorf("Get(k) = %q, %v, %v; want v1 hit", data, hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); !bytes.Equal(data, []byte("v2")) {
		t.Errorf("Get(k) after overwrite = %q, want v2", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get(k) hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, c)
}

func TestFileCacheExpiryAndCorruption(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}

	p := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want quiet miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("cache dir missing after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
}

func TestLRUCache(t *testing.T) {
	c, err := NewLRUCache(4)
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, c)
}

func TestLRUCacheEvictionAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("least recently used entry not evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	_ = c.Set(ctx, "ttl", []byte("x"), time.Minute)
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("expired LRU entry returned as hit")
	}

	src := []byte("mutable")
	_ = c.Set(ctx, "copy", src, 0)
	src[0] = 'X'
	if data, _, _ := c.Get(ctx, "copy"); string(data) != "mutable" {
		t.Errorf("stored data aliased caller slice: %q", data)
	}
}

func TestRedisCacheConstruction(t *testing.T) {
	if c := NewRedisCache(nil, ""); c.prefix != DefaultRedisPrefix {
		t.Errorf("prefix = %q, want %q", c.prefix, DefaultRedisPrefix)
	}
	if _, err := DialRedis(context.Background(), "ftp://localhost"); err == nil {
		t.Error("DialRedis with bad scheme should fail")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	base := k.AnalysisKey("octo/hello", "main", "abc", map[string]float64{"hotspot": 1.5})

	tests := []struct {
		name string
		key  string
	}{
		{"repo", k.AnalysisKey("octo/other", "main", "abc", map[string]float64{"hotspot": 1.5})},
		{"ref", k.AnalysisKey("octo/hello", "dev", "abc", map[string]float64{"hotspot": 1.5})},
		{"tree", k.AnalysisKey("octo/hello", "main", "abd", map[string]float64{"hotspot": 1.5})},
		{"opts", k.AnalysisKey("octo/hello", "main", "abc", map[string]float64{"hotspot": 2})},
	}
	for _, tt := range tests {
		if tt.key == base {
			t.Errorf("changing %s did not change the key", tt.name)
		}
	}
	if base[:9] != "analysis:" {
		t.Errorf("key = %q, want analysis: prefix", base)
	}

	scoped := NewScopedKeyer(nil, "staging:")
	if got := scoped.AnalysisKey("octo/hello", "main", "abc", map[string]float64{"hotspot": 1.5}); got != "staging:"+base {
		t.Errorf("scoped key = %q, want staging:%s", got, base)
	}
}
