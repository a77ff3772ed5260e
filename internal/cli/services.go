package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/internal/config"
	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/cache"
	"github.com/matzehuels/gitmaster/pkg/errors"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	"github.com/matzehuels/gitmaster/pkg/source"
	ghsource "github.com/matzehuels/gitmaster/pkg/source/github"
	"github.com/matzehuels/gitmaster/pkg/source/local"
	"github.com/matzehuels/gitmaster/pkg/store"
)

// services bundles the collaborators shared by analyze, serve and mcp.
type services struct {
	runner *analysis.Runner
	github *ghapi.Client
}

// newServices builds the runner and GitHub client from cfg. With noCache the
// configured cache backend is replaced by a null cache.
func (c *CLI) newServices(ctx context.Context, cfg *config.Config, noCache bool) (*services, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	st, err := newStore(ctx, cfg.Mongo)
	if err != nil {
		ch.Close()
		return nil, err
	}

	runner := analysis.NewRunner(ch, nil, st, c.Logger)
	if cfg.Cache.TTL > 0 {
		runner.TTL = cfg.Cache.TTL
	}
	client := ghapi.NewClient(cfg.GitHub.Token, ghapi.WithConcurrency(cfg.Fetch.Concurrency))

	c.Logger.Debug("services ready",
		"cache", cacheBackend(cfg, noCache),
		"store", storeKind(cfg.Mongo),
		"github_auth", client.Authenticated())
	return &services{runner: runner, github: client}, nil
}

func (s *services) Close() error {
	return s.runner.Close()
}

// newCache opens the configured cache backend.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	switch cacheBackend(cfg, noCache) {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewLRUCache(cfg.Cache.Size)
	case config.CacheRedis:
		return cache.DialRedis(ctx, cfg.Redis.URL)
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func cacheBackend(cfg *config.Config, noCache bool) string {
	if noCache {
		return config.CacheNone
	}
	return cfg.Cache.Backend
}

// cacheDir returns the file cache directory: cache.dir when configured,
// otherwise the per-user cache directory.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// newStore connects to MongoDB when a URI is configured and falls back to
// an in-memory store.
func newStore(ctx context.Context, cfg config.MongoConfig) (store.Store, error) {
	if cfg.URI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.ConnectMongo(ctx, cfg.URI, cfg.Database)
}

func storeKind(cfg config.MongoConfig) string {
	if cfg.URI == "" {
		return "memory"
	}
	return "mongo"
}

// resolveSource maps a command-line target to a source. Existing
// directories win over GitHub references so "./owner/repo" stays local.
func resolveSource(target string, client *ghapi.Client, ref string, logger *log.Logger) (source.Source, error) {
	if info, err := os.Stat(target); err == nil {
		if !info.IsDir() {
			return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", target)
		}
		if ref != "" {
			logger.Warn("--ref is ignored for local directories", "path", target)
		}
		return local.New(target, logger), nil
	}
	src, err := ghsource.FromURL(client, target, ghsource.WithRef(ref), ghsource.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
			"%q is neither a directory nor a GitHub repository", target)
	}
	return src, nil
}
