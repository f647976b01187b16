// Package tsp - shared types, sentinel errors and the Solver surface.
//
// All three searches (Genetic, Annealing, Colony) report through the same
// Result / Snapshot / Progress values and fail construction with the same
// sentinel taxonomy:
//
//   - ErrInvalidMatrix        - the distance matrix cannot be searched
//     (refined by ErrNonSquare, ErrTooSmall, ErrNegativeWeight, ErrNonFinite,
//     ErrAsymmetry; every refinement satisfies errors.Is(err, ErrInvalidMatrix)).
//   - ErrInvalidConfiguration - a parameter is out of range; returned wrapped
//     with the offending field name and value.
//   - ErrInvalidTour          - a tour is not a permutation of [0, n).
//
// Equal-fitness and equal-cost ties are not errors: the first candidate
// encountered wins everywhere, which keeps seeded runs reproducible.
package tsp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMatrix is the root of every distance-matrix rejection.
var ErrInvalidMatrix = errors.New("tsp: invalid distance matrix")

// Refinements of ErrInvalidMatrix. errors.Is matches both the refinement and the root.
var (
	// ErrNonSquare - rows != cols, or an empty/nil matrix.
	ErrNonSquare = fmt.Errorf("%w: not square", ErrInvalidMatrix)

	// ErrTooSmall - fewer than two cities.
	ErrTooSmall = fmt.Errorf("%w: fewer than 2 cities", ErrInvalidMatrix)

	// ErrNegativeWeight - a negative off-diagonal distance.
	ErrNegativeWeight = fmt.Errorf("%w: negative distance", ErrInvalidMatrix)

	// ErrNonFinite - NaN or ±Inf off the diagonal.
	ErrNonFinite = fmt.Errorf("%w: non-finite distance", ErrInvalidMatrix)

	// ErrAsymmetry - |d(i,j) - d(j,i)| exceeds symTol.
	ErrAsymmetry = fmt.Errorf("%w: not symmetric", ErrInvalidMatrix)

	// ErrNilCostModel - a search was built over a nil *CostModel.
	ErrNilCostModel = fmt.Errorf("%w: nil cost model", ErrInvalidMatrix)
)

// ErrInvalidConfiguration is returned (wrapped with field context) when a
// search is constructed with out-of-range parameters.
var ErrInvalidConfiguration = errors.New("tsp: invalid configuration")

// ErrInvalidTour is returned when a tour is empty, has the wrong length,
// or is not a permutation of [0, n).
var ErrInvalidTour = errors.New("tsp: invalid tour")

// configErrorf wraps ErrInvalidConfiguration with the offending field.
func configErrorf(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfiguration, field, fmt.Sprintf(format, args...))
}

// Algorithm identifies one of the search strategies.
type Algorithm int

const (
	// Genetic is the population-based evolutionary search.
	Genetic Algorithm = iota
	// Annealing is the single-trajectory simulated-annealing search.
	Annealing
	// Colony is the ant-colony (stigmergic) search.
	Colony
)

// Algorithms lists every strategy in canonical order.
var Algorithms = []Algorithm{Genetic, Annealing, Colony}

// String returns the lower-case canonical name ("genetic", "annealing", "colony").
func (a Algorithm) String() string {
	switch a {
	case Genetic:
		return "genetic"
	case Annealing:
		return "annealing"
	case Colony:
		return "colony"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a case-insensitive name (or common alias) to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "genetic", "ga":
		return Genetic, nil
	case "annealing", "sa", "simulated-annealing":
		return Annealing, nil
	case "colony", "aco", "ant-colony":
		return Colony, nil
	default:
		return 0, configErrorf("Algorithm", "%q unknown", s)
	}
}

// MarshalText implements encoding.TextMarshaler (used by YAML configs).
func (a Algorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = v

	return nil
}

// Snapshot is an immutable incumbent: a tour and its length at a given iteration.
// Tour is never aliased by live search state; callers may keep or mutate it.
type Snapshot struct {
	Iteration int     // generation / iteration at which this tour became the incumbent
	Tour      []int   // permutation of [0, n)
	Cost      float64 // PathLength(Tour)
}

// Result is the outcome of a completed search.
type Result struct {
	Algorithm  Algorithm
	Tour       []int   // best tour found, a permutation of [0, n)
	Cost       float64 // its closed-cycle length
	Iterations int     // generations/iterations actually executed
	Stagnated  bool    // Genetic only: stopped by the stagnation limit
}

// Progress is delivered to an Observer while a search runs.
type Progress struct {
	Algorithm   Algorithm
	Iteration   int      // 0 = initial state, then 1..budget
	Best        Snapshot // incumbent after this iteration
	Current     float64  // iteration-local cost: generation best, trajectory cost, or best ant
	Temperature float64  // Annealing only; 0 otherwise
}

// Observer receives per-iteration progress. It runs synchronously on the
// search goroutine and must not retain Progress.Best.Tour mutably.
type Observer func(Progress)

// Solver is implemented by *GeneticSearch, *AnnealingSearch and *ColonySearch.
type Solver interface {
	Algorithm() Algorithm
	Solve() Result
}
