// Package tsp - validation utilities shared by every search constructor.
//
// This file contains small, tight helpers that:
//  1. Validate distance matrices (shape, size, negativity, NaN/∞, symmetry).
//  2. Validate scalar configuration fields (rates, counts, positive reals).
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input; only sentinel errors from types.go.
//   - O(n²) worst-case where n is the matrix size.
package tsp

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/tspmeta/matrix"
)

// symTol is a structural tolerance for the symmetry check.
const symTol = 1e-12

// validateDistMatrix performs full matrix validation and returns n:
//   - non-nil, square, n ≥ 2,
//   - off-diagonal entries finite and non-negative,
//   - |a_ij − a_ji| ≤ symTol.
//
// The diagonal is never read by any search and is therefore not inspected.
//
// Complexity: O(n²).
func validateDistMatrix(dist matrix.Matrix) (int, error) {
	// Stage 1: shape checks.
	if err := matrix.ValidateSquare(dist); err != nil {
		return 0, fmt.Errorf("%w (%v)", ErrNonSquare, err)
	}
	var n = dist.Rows()
	if n < 2 {
		return 0, ErrTooSmall
	}

	// Stage 2: per-entry value checks.
	var (
		i, j int
		aij  float64
		err  error
	)
	for i = 0; i < n; i++ { // rows
		for j = 0; j < n; j++ { // cols
			if i == j {
				continue // diagonal is never read
			}
			if aij, err = dist.At(i, j); err != nil {
				return 0, fmt.Errorf("%w (%v)", ErrNonSquare, err)
			}
			if math.IsNaN(aij) || math.IsInf(aij, 0) {
				return 0, fmt.Errorf("%w at (%d,%d)", ErrNonFinite, i, j)
			}
			if aij < 0 {
				return 0, fmt.Errorf("%w at (%d,%d)=%g", ErrNegativeWeight, i, j, aij)
			}
		}
	}

	// Stage 3: symmetry.
	if err = matrix.ValidateSymmetric(dist, symTol); err != nil {
		if errors.Is(err, matrix.ErrAsymmetry) {
			return 0, fmt.Errorf("%w (%v)", ErrAsymmetry, err)
		}
		return 0, fmt.Errorf("%w (%v)", ErrInvalidMatrix, err)
	}

	return n, nil
}

// validateRate checks v ∈ [0, 1].
func validateRate(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return configErrorf(field, "=%g outside [0,1]", v)
	}
	return nil
}

// validateAtLeast checks v ≥ lo.
func validateAtLeast(field string, v, lo int) error {
	if v < lo {
		return configErrorf(field, "=%d must be >= %d", v, lo)
	}
	return nil
}

// validatePositive checks v > 0 and finite.
func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return configErrorf(field, "=%g must be a finite value > 0", v)
	}
	return nil
}

// validateNonNegative checks v ≥ 0 and finite.
func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return configErrorf(field, "=%g must be a finite value >= 0", v)
	}
	return nil
}
