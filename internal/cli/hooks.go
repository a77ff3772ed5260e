package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitmaster/pkg/observability"
)

// stageLogger reports analysis, fetch and cache events at debug level.
type stageLogger struct {
	logger *log.Logger
}

func newStageLogger(l *log.Logger) *stageLogger {
	return &stageLogger{logger: l}
}

func (s *stageLogger) OnStageStart(ctx context.Context, stage observability.Stage) {
	s.logger.Debug("stage started", "stage", stage)
}

func (s *stageLogger) OnStageComplete(ctx context.Context, stage observability.Stage, err error, d time.Duration) {
	if err != nil {
		s.logger.Debug("stage failed", "stage", stage, "elapsed", d.Round(time.Millisecond), "error", err)
		return
	}
	s.logger.Debug("stage done", "stage", stage, "elapsed", d.Round(time.Millisecond))
}

func (s *stageLogger) OnFetchStart(ctx context.Context, repo string) {
	s.logger.Debug("fetching", "repo", repo)
}

func (s *stageLogger) OnFetchComplete(ctx context.Context, repo string, files int, err error) {
	if err != nil {
		s.logger.Debug("fetch failed", "repo", repo, "error", err)
		return
	}
	s.logger.Debug("fetched", "repo", repo, "entries", files)
}

func (s *stageLogger) OnCacheHit(ctx context.Context, key string) {
	s.logger.Debug("cache hit", "key", shortKey(key))
}

func (s *stageLogger) OnCacheMiss(ctx context.Context, key string) {
	s.logger.Debug("cache miss", "key", shortKey(key))
}

func (s *stageLogger) OnCacheSet(ctx context.Context, key string, size int) {
	s.logger.Debug("cached result", "key", shortKey(key), "bytes", size)
}

func shortKey(key string) string {
	if len(key) > 24 {
		return key[:24] + "…"
	}
	return key
}
