// Package cache stores serialized analysis results.
//
// All backends implement [Cache], a byte-oriented key/value store with a
// per-entry TTL:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [LRUCache]: a bounded in-process cache, used by the API server
//   - [RedisCache]: a shared cache for multi-instance deployments
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every entry point derives the same
// key for the same repository snapshot.
package cache

import (
	"context"
	"time"
)

// TTLAnalysis is the default lifetime of a cached analysis result.
const TTLAnalysis = 24 * time.Hour

// Cache is a key/value store for serialized results.
//
// Get reports a miss with hit == false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
