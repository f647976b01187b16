package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/tspmeta/store"
	"github.com/katalvlaran/tspmeta/tsp"
)

// StoreSuite runs one contract against every backend.
type StoreSuite struct {
	suite.Suite
	open func(t *testing.T) store.Store
	s    store.Store
	ctx  context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.s = s.open(s.T())
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.s.Close())
}

func record(inst string, alg tsp.Algorithm, run int, cost float64, started int64) store.RunRecord {
	return store.RunRecord{
		ID:         uuid.New(),
		Instance:   inst,
		Algorithm:  alg,
		Run:        run,
		Seed:       tsp.DeriveSeed(42, uint64(run)),
		Cities:     4,
		Cost:       cost,
		Iterations: 10 * (run + 1),
		Stagnated:  alg == tsp.Genetic,
		Polished:   run%2 == 1,
		Started:    time.Unix(1_700_000_000, started).UTC(),
		Duration:   time.Duration(run+1) * time.Millisecond,
		Tour:       []int{3, 1, 0, 2},
	}
}

func (s *StoreSuite) TestRoundTrip() {
	want := record("square", tsp.Annealing, 1, 4.5, 7)
	s.Require().NoError(s.s.SaveRun(s.ctx, want))

	got, err := s.s.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Equal([]store.RunRecord{want}, got)

	// Returned tours are copies.
	got[0].Tour[0] = 99
	again, err := s.s.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Equal(want.Tour, again[0].Tour)
}

func (s *StoreSuite) TestUpsert() {
	r := record("square", tsp.Colony, 0, 9, 1)
	s.Require().NoError(s.s.SaveRun(s.ctx, r))
	r.Cost = 4
	r.Tour = []int{0, 1, 2, 3}
	s.Require().NoError(s.s.SaveRun(s.ctx, r))

	got, err := s.s.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Require().Equal(4.0, got[0].Cost)
	s.Require().Equal([]int{0, 1, 2, 3}, got[0].Tour)
}

func (s *StoreSuite) TestFilterAndOrder() {
	recs := []store.RunRecord{
		record("a", tsp.Genetic, 0, 30, 1),
		record("a", tsp.Annealing, 0, 10, 2),
		record("a", tsp.Colony, 0, 20, 3),
		record("a", tsp.Colony, 1, 10, 1),
		record("b", tsp.Genetic, 0, 5, 1),
	}
	for _, r := range recs {
		s.Require().NoError(s.s.SaveRun(s.ctx, r))
	}

	all, err := s.s.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 5)
	// Cost first, then start time on ties.
	s.Require().Equal(recs[4].ID, all[0].ID)
	s.Require().Equal(recs[3].ID, all[1].ID)
	s.Require().Equal(recs[1].ID, all[2].ID)

	onlyA, err := s.s.ListRuns(s.ctx, store.Filter{Instance: "a", Algorithms: []tsp.Algorithm{tsp.Colony, tsp.Genetic}})
	s.Require().NoError(err)
	s.Require().Len(onlyA, 3)
	for _, r := range onlyA {
		s.Require().Equal("a", r.Instance)
		s.Require().NotEqual(tsp.Annealing, r.Algorithm)
	}

	top, err := s.s.ListRuns(s.ctx, store.Filter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(top, 2)
}

func (s *StoreSuite) TestRejectsInvalid() {
	r := record("a", tsp.Genetic, 0, 1, 1)
	r.ID = uuid.Nil
	s.Require().ErrorIs(s.s.SaveRun(s.ctx, r), store.ErrInvalidRecord)

	r = record("a", tsp.Genetic, 0, 1, 1)
	r.Tour = []int{0, 0, 1, 2}
	err := s.s.SaveRun(s.ctx, r)
	s.Require().ErrorIs(err, store.ErrInvalidRecord)
	s.Require().ErrorIs(err, tsp.ErrInvalidTour)
}

func (s *StoreSuite) TestClosed() {
	s.Require().NoError(s.s.Close())
	s.Require().ErrorIs(s.s.SaveRun(s.ctx, record("a", tsp.Genetic, 0, 1, 1)), store.ErrClosed)
	_, err := s.s.ListRuns(s.ctx, store.Filter{})
	s.Require().ErrorIs(err, store.ErrClosed)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(*testing.T) store.Store { return store.NewMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) store.Store {
		s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		return s
	}})
}

// TestSQLite_Reopen: records survive closing and reopening the file.
func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "runs.db")

	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	want := record("square", tsp.Genetic, 0, 4, 1)
	require.NoError(t, s.SaveRun(ctx, want))
	require.NoError(t, s.Close())

	s, err = store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.ListRuns(ctx, store.Filter{Algorithms: []tsp.Algorithm{tsp.Genetic}})
	require.NoError(t, err)
	require.Equal(t, []store.RunRecord{want}, got)
}
