// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Enforce the numeric policy (reject NaN/Inf) from a single place.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone/Scale/Equal: O(r*c).
package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt    = "At"    // method tag used in error wrappers
	ctxSet   = "Set"   // method tag used in error wrappers
	ctxScale = "Scale" // method tag used in error wrappers
	ctxFrom  = "From"  // ctor tag for NewDenseFrom
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// The sentinel is preserved via %w, e.g. "Dense.At(3,7): matrix: index out of range".
//
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int       // row and column counts (>0)
	data []float64 // contiguous row-major storage (len == r*c)
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil) // *Dense implements our public Matrix interface
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Errors:
//   - ErrInvalidDimensions when rows<=0 or cols<=0.
//
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	// Validate shape.
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewFilled creates an r×c matrix with every entry set to v.
//
// Errors:
//   - ErrInvalidDimensions on a bad shape, ErrNaNInf when v is not finite.
//
// Complexity: O(r*c).
func NewFilled(rows, cols int, v float64) (*Dense, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrNaNInf
	}
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	var k int
	for k = range m.data {
		m.data[k] = v
	}

	return m, nil
}

// NewDenseFrom copies a rectangular [][]float64 into a fresh Dense.
// Stage 1 (Validate): non-empty, no ragged rows.
// Stage 2 (Copy): row-major copy with NaN/Inf rejection.
//
// Errors:
//   - ErrInvalidDimensions for an empty source or empty first row,
//   - ErrRagged when any row length differs from the first,
//   - ErrNaNInf (wrapped with coordinates) for non-finite entries.
//
// Complexity: O(r*c).
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	var (
		r    = len(rows)
		c    = len(rows[0])
		i, j int
		v    float64
	)
	m := &Dense{r: r, c: c, data: make([]float64, r*c)}
	for i = 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(rows[i]), c, ErrRagged)
		}
		for j = 0; j < c; j++ {
			v = rows[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxFrom, i, j, ErrNaNInf)
			}
			m.data[i*c+j] = v
		}
	}

	return m, nil
}

// Rows returns the number of rows. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns a wrapped ErrOutOfRange.
//
// Complexity: O(1).
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
//
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col). NaN and ±Inf are rejected.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Clone returns a deep copy of the Dense matrix.
//
// Complexity: O(r*c) time and memory.
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data)) // allocate same length
	copy(cp, m.data)                   // deep copy values

	return &Dense{r: m.r, c: m.c, data: cp}
}

// Scale multiplies every entry by alpha in place.
// All-or-nothing: a non-finite product leaves the matrix untouched.
//
// Complexity: O(r*c).
func (m *Dense) Scale(alpha float64) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return denseErrorf(ctxScale, -1, -1, ErrNaNInf)
	}
	var k int
	for k = range m.data {
		if v := m.data[k] * alpha; math.IsInf(v, 0) {
			return denseErrorf(ctxScale, k/m.c, k%m.c, ErrNaNInf)
		}
	}
	for k = range m.data {
		m.data[k] *= alpha
	}

	return nil
}

// Equal reports whether other has the same shape and every entry differs by at most tol.
// A nil other compares unequal.
//
// Complexity: O(r*c).
func (m *Dense) Equal(other Matrix, tol float64) bool {
	if other == nil || other.Rows() != m.r || other.Cols() != m.c {
		return false
	}
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			if v, err = other.At(i, j); err != nil {
				return false
			}
			if math.Abs(v-m.data[i*m.c+j]) > tol {
				return false
			}
		}
	}

	return true
}

// String renders matrix rows as lines with comma-separated values.
// Intended for debugging; not for hot paths.
//
// Complexity: O(r*c).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ { // iterate rows deterministically
		b.WriteString(_fmtRowOpen) // open row
		base = i * m.c
		for j = 0; j < m.c; j++ { // iterate cols
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep) // separate values with comma + space
			}
		}
		b.WriteString(_fmtRowClose) // close row
	}

	return b.String()
}
