// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. Binaries register their own implementations at startup, so the
// analysis packages stay free of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&stageLogger{logger})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnStageStart(ctx, observability.StageFetch)
//	// ... fetch ...
//	observability.Analysis().OnStageComplete(ctx, observability.StageFetch, err, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names one step of an analysis run.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageCache   Stage = "cache"
	StageAnalyze Stage = "analyze"
	StageStore   Stage = "store"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from analysis runs.
type AnalysisHooks interface {
	OnStageStart(ctx context.Context, stage Stage)
	OnStageComplete(ctx context.Context, stage Stage, err error, duration time.Duration)
}

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from repository sources.
type FetchHooks interface {
	// OnFetchStart records the start of a snapshot fetch for repo.
	OnFetchStart(ctx context.Context, repo string)

	// OnFetchComplete records the end of a fetch with the number of tree
	// entries retrieved.
	OnFetchComplete(ctx context.Context, repo string, files int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the result cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outgoing API requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnStageStart(context.Context, Stage)                           {}
func (NoopAnalysisHooks) OnStageComplete(context.Context, Stage, error, time.Duration) {}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnFetchStart(context.Context, string)                   {}
func (NoopFetchHooks) OnFetchComplete(context.Context, string, int, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	fetchHooks    FetchHooks    = NoopFetchHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks. Nil is ignored.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetFetchHooks registers custom fetch hooks. Nil is ignored.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	fetchHooks = NoopFetchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// TimeStage reports the start of stage and returns a function that reports
// its completion. Typical use:
//
//	done := observability.TimeStage(ctx, observability.StageFetch)
//	snap, err := src.Fetch(ctx)
//	done(err)
func TimeStage(ctx context.Context, stage Stage) func(error) {
	h := Analysis()
	start := time.Now()
	h.OnStageStart(ctx, stage)
	return func(err error) {
		h.OnStageComplete(ctx, stage, err, time.Since(start))
	}
}
