// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmeta/matrix"
)

// TestValidateSquare covers nil inputs, square and non-square cases.
func TestValidateSquare(t *testing.T) {
	t.Parallel()

	zeros := func(r, c int) matrix.Matrix {
		m, err := matrix.NewDense(r, c)
		require.NoError(t, err)
		return m
	}
	var typedNil *matrix.Dense

	tests := []struct {
		name    string
		m       matrix.Matrix
		wantErr error
	}{
		{"nil", nil, matrix.ErrNilMatrix},
		{"typed nil", typedNil, matrix.ErrNilMatrix},
		{"square 3x3", zeros(3, 3), nil},
		{"non-square 2x3", zeros(2, 3), matrix.ErrNonSquare},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := matrix.ValidateSquare(tc.m)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Truef(t, errors.Is(err, tc.wantErr), "expected errors.Is(%v, %v)", err, tc.wantErr)
		})
	}
}

// TestValidateSymmetric covers tolerance handling, NaN detection and the diagonal exemption.
func TestValidateSymmetric(t *testing.T) {
	t.Parallel()

	build := func(a [][]float64) matrix.Matrix {
		m, err := matrix.NewDenseFrom(a)
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name    string
		m       matrix.Matrix
		tol     float64
		wantErr error
	}{
		{"symmetric", build([][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}}), 0, nil},
		{"diagonal ignored", build([][]float64{{7, 1}, {1, -3}}), 0, nil},
		{"within tol", build([][]float64{{0, 1}, {1 + 1e-13, 0}}), 1e-12, nil},
		{"negative tol uses abs", build([][]float64{{0, 1}, {1 + 1e-13, 0}}), -1e-12, nil},
		{"outside tol", build([][]float64{{0, 1}, {2, 0}}), 1e-12, matrix.ErrAsymmetry},
		{"non-square", build([][]float64{{0, 1, 2}, {1, 0, 3}}), 0, matrix.ErrNonSquare},
		{"nil", nil, 0, matrix.ErrNilMatrix},
		{"bad tol", build([][]float64{{0, 1}, {1, 0}}), math.NaN(), matrix.ErrNaNInf},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := matrix.ValidateSymmetric(tc.m, tc.tol)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
