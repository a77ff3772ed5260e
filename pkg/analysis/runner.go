package analysis

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/pkg/cache"
	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/observability"
	"github.com/matzehuels/gitmaster/pkg/source"
	"github.com/matzehuels/gitmaster/pkg/store"
)

// RunOptions configures one [Runner.Run].
type RunOptions struct {
	Options

	// Refresh skips the cache lookup. The fresh result is still cached.
	Refresh bool
}

// Runner fetches, analyzes, caches and stores repositories. The CLI, the
// HTTP API and the MCP server share it so caching behaves the same
// everywhere.
//
// A Runner holds no per-run state; one instance may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger

	// TTL is how long results stay cached. Defaults to cache.TTLAnalysis.
	TTL time.Duration

	now func() time.Time
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer, a nil store disables persistence and a nil
// logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
		TTL:    cache.TTLAnalysis,
		now:    time.Now,
	}
}

// Run fetches a snapshot from src and returns its analysis. A cached result
// for the same repository, ref, content and options is returned as is with
// Cached set; otherwise the fresh result gets a new ID and is cached and,
// when a store is configured, persisted.
func (r *Runner) Run(ctx context.Context, src source.Source, opts RunOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	start := time.Now()
	done := observability.TimeStage(ctx, observability.StageFetch)
	snap, err := src.Fetch(ctx)
	done(err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("fetched repository",
		"source", src.Name(),
		"entries", len(snap.Tree),
		"manifests", len(snap.Manifests),
		"duration", time.Since(start))

	key := r.Keyer.AnalysisKey(src.Name(), snap.Repository.DefaultBranch, Fingerprint(snap), opts.Arch.WithDefaults())
	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			r.Logger.Info("using cached analysis", "source", src.Name(), "id", res.ID)
			return res, nil
		}
	}

	start = time.Now()
	done = observability.TimeStage(ctx, observability.StageAnalyze)
	res, err := AnalyzeSnapshot(snap, opts.Options)
	done(err)
	if err != nil {
		return nil, err
	}
	res.ID = store.NewID()
	res.AnalyzedAt = r.now().UTC()
	r.Logger.Info("analyzed repository",
		"source", src.Name(),
		"type", res.Insight.ProjectType,
		"frameworks", len(res.Insight.Frameworks),
		"nodes", res.Architecture.NodeCount(),
		"duration", time.Since(start))

	if err := r.persist(ctx, key, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Fingerprint identifies the content of a snapshot: its revision when the
// source has one, otherwise a hash of the tree and manifest texts.
func Fingerprint(snap *source.Snapshot) string {
	if snap.Repository.Revision != "" {
		return snap.Repository.Revision
	}
	data, _ := json.Marshal(struct {
		Tree      any               `json:"tree"`
		Manifests map[string]string `json:"manifests"`
	}{snap.Tree, snap.Manifests})
	return cache.Hash(data)
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	done := observability.TimeStage(ctx, observability.StageCache)
	data, hit, err := r.Cache.Get(ctx, key)
	done(err)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, key)
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil || res.Architecture == nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		hooks.OnCacheMiss(ctx, key)
		return nil, false
	}
	hooks.OnCacheHit(ctx, key)
	res.Cached = true
	return &res, true
}

// persist caches res and saves it to the store. Cache and store failures
// are logged, not returned; only an unencodable result is an error.
func (r *Runner) persist(ctx context.Context, key string, res *Result) (err error) {
	done := observability.TimeStage(ctx, observability.StageStore)
	defer func() { done(err) }()

	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode analysis")
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}

	if r.Store == nil {
		return nil
	}
	rec := &store.Record{
		ID:        res.ID,
		Summary:   res.Summary,
		CreatedAt: res.AnalyzedAt,
		Result:    data,
	}
	if res.Repository != nil {
		rec.Repository = res.Repository.FullName
		rec.Revision = res.Repository.Revision
	}
	if err := r.Store.Save(ctx, rec); err != nil {
		r.Logger.Warn("storing analysis failed", "id", res.ID, "error", err)
	}
	return nil
}

// Get loads a stored analysis by ID.
func (r *Runner) Get(ctx context.Context, id string) (*Result, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found: no result store configured", id)
	}
	rec, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(rec.Result, &res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode analysis %s", id)
	}
	return &res, nil
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
