// Package store persists finished analyses so they can be retrieved by ID.
//
// Two backends are provided: [MemoryStore] keeps records in process and is
// the default, [MongoStore] writes them to a MongoDB collection. Results are
// stored as opaque JSON so this package does not depend on the analysis
// types.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps [Store.List] when the caller passes no limit.
const DefaultListLimit = 20

// Record is one stored analysis.
type Record struct {
	ID         string          `json:"id"`
	Repository string          `json:"repository"`
	Revision   string          `json:"revision,omitempty"`
	Summary    string          `json:"summary"`
	CreatedAt  time.Time       `json:"createdAt"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Store persists analysis records.
type Store interface {
	// Save inserts rec. Saving an existing ID replaces the record.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with id, or an error with code NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first without their result payload.
	// An empty repository lists every repository.
	List(ctx context.Context, repository string, limit int) ([]Record, error)

	// Close releases any connection held by the store.
	Close() error
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
