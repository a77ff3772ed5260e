package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/internal/config"
	"github.com/matzehuels/gitmaster/pkg/cache"
	"github.com/matzehuels/gitmaster/pkg/errors"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	ghsource "github.com/matzehuels/gitmaster/pkg/source/github"
	"github.com/matzehuels/gitmaster/pkg/source/local"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{Backend: backend, Size: 4},
		Fetch: config.FetchConfig{Concurrency: 2},
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "xdg"))

	dir, err := cacheDir(testConfig(config.CacheFile))
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	cfg := testConfig(config.CacheFile)
	cfg.Cache.Dir = "/tmp/custom"
	if dir, _ := cacheDir(cfg); dir != "/tmp/custom" {
		t.Errorf("cacheDir() with cache.dir = %q, want /tmp/custom", dir)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		noCache bool
		check   func(cache.Cache) bool
	}{
		{"none", config.CacheNone, false, func(c cache.Cache) bool { _, ok := c.(*cache.NullCache); return ok }},
		{"memory", config.CacheMemory, false, func(c cache.Cache) bool { _, ok := c.(*cache.LRUCache); return ok }},
		{"file", config.CacheFile, false, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
		{"no-cache wins", config.CacheMemory, true, func(c cache.Cache) bool { _, ok := c.(*cache.NullCache); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.backend)
			cfg.Cache.Dir = t.TempDir()
			c, err := newCache(ctx, cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error = %v", err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("newCache() = %T", c)
			}
		})
	}
}

func TestNewServices(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cfg := testConfig(config.CacheMemory)

	svc, err := c.newServices(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("newServices() error = %v", err)
	}
	defer svc.Close()

	if svc.runner.Store == nil {
		t.Error("runner should get the in-memory store when mongo.uri is empty")
	}
	if svc.github.Authenticated() {
		t.Error("client should be anonymous without a token")
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	client := ghapi.NewClient("")
	logger := log.New(io.Discard)

	t.Run("directory", func(t *testing.T) {
		src, err := resolveSource(dir, client, "", logger)
		if err != nil {
			t.Fatalf("resolveSource() error = %v", err)
		}
		if _, ok := src.(*local.Source); !ok {
			t.Errorf("resolveSource() = %T, want *local.Source", src)
		}
	})

	t.Run("github", func(t *testing.T) {
		src, err := resolveSource("https://github.com/octo/app", client, "main", logger)
		if err != nil {
			t.Fatalf("resolveSource() error = %v", err)
		}
		if _, ok := src.(*ghsource.Source); !ok || src.Name() != "octo/app" {
			t.Errorf("resolveSource() = %T %q", src, src.Name())
		}
	})

	tests := []struct {
		name   string
		target string
		code   errors.Code
	}{
		{"regular file", file, errors.ErrCodeInvalidPath},
		{"neither", "not-a-repo", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveSource(tt.target, client, "", logger)
			if !errors.Is(err, tt.code) {
				t.Errorf("resolveSource(%q) error = %v, want %s", tt.target, err, tt.code)
			}
		})
	}
}
