// Package store persists the final result of every search run.
//
// Only finished runs are recorded (one RunRecord per search); intermediate
// progress is never persisted. Two implementations share the Store interface:
//
//   - Memory - process-local, used by tests and when no database is configured;
//   - SQLite - a single-file database (modernc.org/sqlite, no cgo).
//
// SaveRun is an upsert keyed by RunRecord.ID. ListRuns returns records ordered
// by cost, then start time, then ID, so equal costs list deterministically.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/tspmeta/tsp"
)

var (
	// ErrClosed - the store was used after Close.
	ErrClosed = errors.New("store: closed")

	// ErrInvalidRecord - a record is missing its ID or tour.
	ErrInvalidRecord = errors.New("store: invalid record")
)

// RunRecord is the persisted outcome of one search.
type RunRecord struct {
	ID         uuid.UUID
	Instance   string
	Algorithm  tsp.Algorithm
	Run        int   // 0-based run index within its algorithm
	Seed       int64 // seed the search was constructed with
	Cities     int
	Cost       float64
	Iterations int
	Stagnated  bool
	Polished   bool
	Started    time.Time
	Duration   time.Duration
	Tour       []int
}

// Validate checks the fields every backend relies on.
func (r RunRecord) Validate() error {
	if r.ID == uuid.Nil {
		return errors.Join(ErrInvalidRecord, errors.New("nil id"))
	}
	if err := tsp.ValidatePermutation(r.Tour, r.Cities); err != nil {
		return errors.Join(ErrInvalidRecord, err)
	}
	return nil
}

// Filter narrows ListRuns. The zero value lists everything.
type Filter struct {
	Instance   string          // exact match when non-empty
	Algorithms []tsp.Algorithm // any of, when non-empty
	Limit      int             // ≤ 0 ⇒ unlimited
}

func (f Filter) match(r RunRecord) bool {
	if f.Instance != "" && r.Instance != f.Instance {
		return false
	}
	if len(f.Algorithms) > 0 && !slices.Contains(f.Algorithms, r.Algorithm) {
		return false
	}
	return true
}

// Store records and lists runs. Implementations are safe for concurrent use.
type Store interface {
	SaveRun(ctx context.Context, r RunRecord) error
	ListRuns(ctx context.Context, f Filter) ([]RunRecord, error)
	Close() error
}

// compareRuns orders by cost, start time, then ID.
func compareRuns(a, b RunRecord) int {
	switch {
	case a.Cost < b.Cost:
		return -1
	case a.Cost > b.Cost:
		return 1
	}
	if c := a.Started.Compare(b.Started); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
