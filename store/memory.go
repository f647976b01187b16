package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/tspmeta/tsp"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	runs   map[uuid.UUID]RunRecord
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[uuid.UUID]RunRecord)}
}

// SaveRun stores a copy of r, replacing any record with the same ID.
func (m *Memory) SaveRun(ctx context.Context, r RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	r.Tour = tsp.CopyTour(r.Tour)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.runs[r.ID] = r
	return nil
}

// ListRuns returns copies of the matching records.
func (m *Memory) ListRuns(ctx context.Context, f Filter) ([]RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	out := make([]RunRecord, 0, len(m.runs))
	for _, r := range m.runs {
		if f.match(r) {
			r.Tour = tsp.CopyTour(r.Tour)
			out = append(out, r)
		}
	}
	slices.SortFunc(out, compareRuns)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Close drops every record. Further calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.runs = nil
	return nil
}
