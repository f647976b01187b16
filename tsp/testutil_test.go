// Package tsp_test provides lightweight testing helpers shared across *_test.go
// files in this package.
package tsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmeta/matrix"
	"github.com/katalvlaran/tspmeta/tsp"
)

// -----------------------------------------------------------------------------
// Constants - single source of truth for test knobs
// -----------------------------------------------------------------------------

const (
	// epsTiny matches tsp.DefaultEps.
	epsTiny = 1e-12

	// seedDet is a deterministic seed for every seeded search in the tests.
	seedDet = int64(42)

	// repeatDet is how many times determinism checks are replayed.
	repeatDet = 3
)

// -----------------------------------------------------------------------------
// Minimal matrix implementation for tests. Unlike matrix.Dense it stores
// anything, including NaN and ±Inf, so rejection paths can be exercised.
// -----------------------------------------------------------------------------

// testDense is a simple dense matrix with bounds-checked At/Set and deep Clone.
type testDense struct{ a [][]float64 }

var _ matrix.Matrix = testDense{}

func (m testDense) Rows() int { return len(m.a) }
func (m testDense) Cols() int {
	if len(m.a) == 0 {
		return 0
	}

	return len(m.a[0])
}
func (m testDense) At(i, j int) (float64, error) {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return 0, matrix.ErrOutOfRange
	}

	return m.a[i][j], nil
}
func (m testDense) Set(i, j int, v float64) error {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return matrix.ErrOutOfRange
	}
	m.a[i][j] = v

	return nil
}
func (m testDense) Clone() matrix.Matrix {
	cp := make([][]float64, len(m.a))
	var i int
	for i = range m.a {
		cp[i] = append([]float64(nil), m.a[i]...)
	}

	return testDense{a: cp}
}

// -----------------------------------------------------------------------------
// Generic helpers
// -----------------------------------------------------------------------------

// Repeat runs fn N times. Useful for determinism/stability checks.
func Repeat(t *testing.T, n int, fn func(t *testing.T)) {
	t.Helper()
	var i int
	for i = 0; i < n; i++ {
		fn(t)
	}
}

// requirePermutation asserts tour is a permutation of [0, n).
func requirePermutation(t *testing.T, tour []int, n int) {
	t.Helper()
	require.NoError(t, tsp.ValidatePermutation(tour, n), "tour %s", tsp.DebugString(tour))
}

// requireCostMatches asserts cost is exactly the recomputed length of tour.
func requireCostMatches(t *testing.T, cm *tsp.CostModel, tour []int, cost float64) {
	t.Helper()
	require.Equal(t, cm.PathLength(tour), cost, "tour %s", tsp.DebugString(tour))
}

// -----------------------------------------------------------------------------
// Instance generators
// -----------------------------------------------------------------------------

// dense builds a *matrix.Dense from rows, failing the test on error.
func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// euclid builds a symmetric metric from 2D points with zero diagonal.
func euclid(t *testing.T, pts [][2]float64) *matrix.Dense {
	t.Helper()
	n := len(pts)
	a := make([][]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		a[i] = make([]float64, n)
	}

	// Fill upper triangle, mirror to lower triangle.
	var d float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = math.Hypot(pts[i][0]-pts[j][0], pts[i][1]-pts[j][1])
			a[i][j] = d
			a[j][i] = d
		}
	}

	return dense(t, a)
}

// circlePoints places n points evenly on a circle of radius r, in order.
func circlePoints(n int, r float64) [][2]float64 {
	pts := make([][2]float64, n)
	var (
		i     int
		theta float64
	)
	for i = 0; i < n; i++ {
		theta = 2 * math.Pi * float64(i) / float64(n)
		pts[i] = [2]float64{r * math.Cos(theta), r * math.Sin(theta)}
	}

	return pts
}

// polygonPerimeter is the optimal tour length over circlePoints(n, r).
func polygonPerimeter(n int, r float64) float64 {
	return float64(n) * 2 * r * math.Sin(math.Pi/float64(n))
}

// square4 is a unit square seen as a 4-city instance: the perimeter tour
// [0 1 2 3] costs 4 and either crossing tour costs 22.
func square4(t *testing.T) *matrix.Dense {
	t.Helper()

	return dense(t, [][]float64{
		{0, 1, 10, 1},
		{1, 0, 1, 10},
		{10, 1, 0, 1},
		{1, 10, 1, 0},
	})
}

// pair2 is the smallest valid instance: every search must return 10.
func pair2(t *testing.T) *matrix.Dense {
	t.Helper()

	return dense(t, [][]float64{{0, 5}, {5, 0}})
}

// smallConfigs keeps every search quick while still iterating several times.
func smallConfigs() tsp.Configs {
	cfg := tsp.DefaultConfigs()
	cfg.Genetic.PopulationSize = 30
	cfg.Genetic.Generations = 40
	cfg.Genetic.TournamentSize = 3
	cfg.Genetic.StagnationLimit = 40
	cfg.Annealing.InitialTemp = 100
	cfg.Annealing.CoolingRate = 0.995
	cfg.Annealing.Iterations = 2000
	cfg.Colony.Ants = 10
	cfg.Colony.Iterations = 15
	cfg.Colony.Q = 10

	return cfg
}
