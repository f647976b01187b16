// Package tsp - the cost model shared by every search.
//
// PathLength is the public, fully checked evaluation of a closed tour over any
// matrix.Matrix. CostModel is the validated, immutable flat copy that the
// searches evaluate millions of times; it removes interface indirection and
// error returns from the hot path.
//
// Complexity:
//   - PathLength / CostModel.PathLength: O(n) time, O(1) extra space.
//   - NewCostModel: O(n²) validation + copy.
package tsp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tspmeta/matrix"
)

// PathLength sums dist[tour[i]][tour[i+1]] over consecutive pairs and adds the
// closing edge dist[tour[n-1]][tour[0]].
//
// Contract:
//   - dist is square with Rows() == len(tour);
//   - tour is a permutation of [0, n).
//
// Errors: ErrNonSquare for a bad matrix shape, ErrInvalidTour for an empty,
// wrongly sized or non-permutation tour, ErrNonFinite when an edge read fails
// or is NaN.
//
// Complexity: O(n).
func PathLength(dist matrix.Matrix, tour []int) (float64, error) {
	if err := matrix.ValidateSquare(dist); err != nil {
		return 0, fmt.Errorf("%w (%v)", ErrNonSquare, err)
	}
	if len(tour) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTour)
	}
	if err := ValidatePermutation(tour, dist.Rows()); err != nil {
		return 0, err
	}

	var (
		sum  float64
		i    int
		u, v int
		w    float64
		err  error
		n    = len(tour)
	)
	for i = 0; i < n; i++ {
		u = tour[i]
		v = tour[(i+1)%n] // i == n-1 yields the closing edge
		if w, err = dist.At(u, v); err != nil {
			return 0, fmt.Errorf("%w (%v)", ErrNonFinite, err)
		}
		if math.IsNaN(w) {
			return 0, fmt.Errorf("%w at (%d,%d)", ErrNonFinite, u, v)
		}
		sum += w
	}

	return sum, nil
}

// CostModel is a validated, read-only, row-major copy of a distance matrix.
// A *CostModel is safe for concurrent use by any number of searches.
type CostModel struct {
	n int       // number of cities
	w []float64 // w[i*n+j] == d(i,j); diagonal copied but never read
}

// NewCostModel validates dist (see validateDistMatrix) and copies it.
// Later mutation of dist does not affect the model.
//
// Complexity: O(n²).
func NewCostModel(dist matrix.Matrix) (*CostModel, error) {
	n, err := validateDistMatrix(dist)
	if err != nil {
		return nil, err
	}

	w := make([]float64, n*n)
	var (
		i, j int
		x    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			x, _ = dist.At(i, j) // bounds already proven by validateDistMatrix
			w[i*n+j] = x
		}
	}

	return &CostModel{n: n, w: w}, nil
}

// N returns the number of cities.
func (c *CostModel) N() int { return c.n }

// Distance returns d(i, j) without bounds checks beyond the slice's own.
func (c *CostModel) Distance(i, j int) float64 { return c.w[i*c.n+j] }

// PathLength evaluates a closed tour. The tour must be a permutation of [0, n);
// this hot-path variant does not re-check it.
//
// Complexity: O(n).
func (c *CostModel) PathLength(tour []int) float64 {
	var (
		n   = len(tour)
		sum float64
		i   int
	)
	for i = 0; i < n-1; i++ {
		sum += c.w[tour[i]*c.n+tour[i+1]]
	}
	sum += c.w[tour[n-1]*c.n+tour[0]] // closing edge

	return sum
}

// Matrix returns an independent *matrix.Dense copy of the model with a zero diagonal.
//
// Complexity: O(n²).
func (c *CostModel) Matrix() *matrix.Dense {
	m, _ := matrix.NewDense(c.n, c.n) // n ≥ 2 by construction
	var i, j int
	for i = 0; i < c.n; i++ {
		for j = 0; j < c.n; j++ {
			if i != j {
				_ = m.Set(i, j, c.w[i*c.n+j]) // finite by construction
			}
		}
	}
	return m
}
