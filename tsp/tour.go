// Package tsp - tour utilities shared by every search.
//
// A tour is an open slice of n city indices interpreted as a cycle: the edge
// tour[n-1] → tour[0] is always part of its cost. Provided helpers:
//   - ValidatePermutation: verify a permutation over {0..n-1}.
//   - IdentityTour / RandomTour: the canonical and a uniformly random tour.
//   - ReverseSegment: in-place reversal of [i..j] (inversion / 2-opt core).
//   - CopyTour: independent copy of a tour slice.
//   - RotateToStart: cyclic shift so the tour starts at a given city.
//   - EqualCycles: equality under rotation and reflection.
//   - DebugString: compact printable representation for tests/logs.
//
// Design:
//   - No logging, no panics on user input; only sentinel errors from types.go.
//   - O(n) time for every helper; in-place mutations avoid extra allocations.
package tsp

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// ValidatePermutation checks that perm is a permutation of {0..n-1} of length n.
// It allocates a single O(n) boolean marker slice.
//
// Complexity: O(n) time, O(n) space.
func ValidatePermutation(perm []int, n int) error {
	if n <= 0 || len(perm) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTour, len(perm), n)
	}
	seen := make([]bool, n)

	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = perm[i]
		// Out-of-range element violates the bijection contract.
		if v < 0 || v >= n {
			return fmt.Errorf("%w: city %d at position %d out of range", ErrInvalidTour, v, i)
		}
		// Duplicate also violates the bijection contract.
		if seen[v] {
			return fmt.Errorf("%w: city %d repeated at position %d", ErrInvalidTour, v, i)
		}
		seen[v] = true
	}
	return nil
}

// IdentityTour returns [0, 1, …, n-1].
//
// Complexity: O(n).
func IdentityTour(n int) []int {
	t := make([]int, n)
	var i int
	for i = range t {
		t[i] = i
	}
	return t
}

// RandomTour returns a uniformly random permutation of [0, n) drawn from rng.
//
// Complexity: O(n).
func RandomTour(n int, rng *rand.Rand) []int {
	t := IdentityTour(n)
	shuffleIntsInPlace(t, rng)
	return t
}

// ReverseSegment reverses the inclusive segment tour[i..j] in place.
// Indices outside [0, len) or i > j leave the tour untouched.
//
// Complexity: O(j-i) time, O(1) space.
func ReverseSegment(tour []int, i, j int) {
	if i < 0 || j >= len(tour) || i >= j {
		return
	}
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

// CopyTour returns an independent copy of the input tour slice.
//
// Complexity: O(n) time, O(n) space.
func CopyTour(tour []int) []int {
	if tour == nil {
		return nil
	}
	out := make([]int, len(tour))
	copy(out, tour)
	return out
}

// RotateToStart returns a fresh copy of the cycle shifted so that out[0] == start.
//
// Errors: ErrInvalidTour when start does not occur in tour.
//
// Complexity: O(n).
func RotateToStart(tour []int, start int) ([]int, error) {
	var (
		n     = len(tour)
		i     int
		pivot = -1
	)
	for i = 0; i < n; i++ {
		if tour[i] == start {
			pivot = i
			break
		}
	}
	if pivot == -1 {
		return nil, fmt.Errorf("%w: start %d not present", ErrInvalidTour, start)
	}

	out := make([]int, n)
	for i = 0; i < n; i++ {
		out[i] = tour[(pivot+i)%n]
	}
	return out, nil
}

// EqualCycles reports whether a and b describe the same undirected cycle,
// i.e. they are equal up to rotation and reversal.
//
// Complexity: O(n).
func EqualCycles(a, b []int) bool {
	var n = len(a)
	if n != len(b) {
		return false
	}
	if n == 0 {
		return true
	}
	// Locate a[0] in b.
	var (
		p = -1
		j int
	)
	for j = 0; j < n; j++ {
		if b[j] == a[0] {
			p = j
			break
		}
	}
	if p == -1 {
		return false
	}

	var (
		i        int
		forward  = true
		backward = true
	)
	for i = 0; i < n && (forward || backward); i++ {
		if a[i] != b[(p+i)%n] {
			forward = false
		}
		if a[i] != b[((p-i)%n+n)%n] {
			backward = false
		}
	}
	return forward || backward
}

// DebugString returns a compact printable representation for tests/logs,
// e.g. "[0 3 1 2 | 0]" where the vertical bar marks the implicit closing edge.
//
// Complexity: O(n).
func DebugString(tour []int) string {
	if len(tour) == 0 {
		return "[]"
	}
	var (
		b strings.Builder
		i int
	)
	b.WriteByte('[')
	for i = range tour {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(tour[i]))
	}
	b.WriteString(" | ")
	b.WriteString(strconv.Itoa(tour[0]))
	b.WriteByte(']')
	return b.String()
}
