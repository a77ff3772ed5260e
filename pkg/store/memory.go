package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/gitmaster/pkg/errors"
)

// MemoryStore keeps records in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save stores a copy of rec.
func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record ID is required")
	}
	cp := *rec
	cp.Result = append([]byte(nil), rec.Result...)

	s.mu.Lock()
	s.records[rec.ID] = cp
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the record with id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found", id)
	}
	rec.Result = append([]byte(nil), rec.Result...)
	return &rec, nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(ctx context.Context, repository string, limit int) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if repository != "" && rec.Repository != repository {
			continue
		}
		rec.Result = nil
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
