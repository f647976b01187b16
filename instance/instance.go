// Package instance builds symmetric distance matrices for the tsp searches.
//
// Generators:
//   - Random    - off-diagonal distances drawn uniformly from [lo, hi);
//   - Euclidean - pairwise straight-line distances between 2D points.
//
// Loaders (see load.go) read the same shapes from text or YAML files.
//
// Every constructor returns a *matrix.Dense with a zero diagonal that passes
// tsp.NewCostModel; failures are reported with the sentinels below and never
// panic. The package does not log.
//
// Complexity: O(n²) time and space for every constructor.
package instance

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/tspmeta/matrix"
)

// Defaults of the random generator.
const (
	DefaultCities      = 200
	DefaultMinDistance = 10.0
	DefaultMaxDistance = 1000.0
)

var (
	// ErrTooFewCities - fewer than two cities requested or supplied.
	ErrTooFewCities = errors.New("instance: need at least 2 cities")

	// ErrBadRange - the distance range is empty, negative or non-finite.
	ErrBadRange = errors.New("instance: invalid distance range")

	// ErrNilRand - Random was called without a random source.
	ErrNilRand = errors.New("instance: nil random source")

	// ErrBadPoint - a coordinate is NaN or ±Inf.
	ErrBadPoint = errors.New("instance: non-finite coordinate")
)

// Random returns an n×n symmetric matrix with a zero diagonal and every
// off-diagonal pair drawn once from U[lo, hi). Pairs are drawn row by row over
// the upper triangle, so a seeded rng always yields the same matrix.
func Random(n int, lo, hi float64, rng *rand.Rand) (*matrix.Dense, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n=%d", ErrTooFewCities, n)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo < 0 || hi <= lo {
		return nil, fmt.Errorf("%w: [%g, %g)", ErrBadRange, lo, hi)
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var (
		i, j  int
		d     float64
		width = hi - lo
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = lo + width*rng.Float64()
			if err = setPair(m, i, j, d); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Euclidean returns the pairwise distance matrix of points.
func Euclidean(points [][2]float64) (*matrix.Dense, error) {
	var n = len(points)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrTooFewCities, n)
	}
	var i, j int
	for i = range points {
		for j = 0; j < 2; j++ {
			if math.IsNaN(points[i][j]) || math.IsInf(points[i][j], 0) {
				return nil, fmt.Errorf("%w: point %d", ErrBadPoint, i)
			}
		}
	}

	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var d float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = math.Hypot(points[i][0]-points[j][0], points[i][1]-points[j][1])
			if err = setPair(m, i, j, d); err != nil {
				return nil, fmt.Errorf("%w: points %d and %d", ErrBadPoint, i, j)
			}
		}
	}

	return m, nil
}

// setPair writes d at (i,j) and (j,i).
func setPair(m *matrix.Dense, i, j int, d float64) error {
	if err := m.Set(i, j, d); err != nil {
		return err
	}

	return m.Set(j, i, d)
}
