// Package tsp - pluggable variation operators for the Genetic search.
//
// Crossover and mutation are configuration, not code paths: the engine draws
// the random cut points / positions and hands them to an operator, so every
// operator consumes the RNG identically and seeded runs differ only by the
// operator's deterministic effect.
//
//	{OrderCrossover, PartiallyMappedCrossover} × {InversionMutation, SwapMutation}
//
// Every operator maps permutations to permutations by construction.
package tsp

import (
	"fmt"
	"strings"
)

// CrossoverOperator builds one child from two parents and a cut [lo, hi].
// The engine calls it twice per pair, swapping parent roles for the second child.
//
// Contract: p1, p2 and dst have equal length n; 0 ≤ lo ≤ hi < n; dst does not
// alias p1 or p2. Implementations may keep scratch state and are used by one
// goroutine only.
type CrossoverOperator interface {
	Cross(dst, p1, p2 []int, lo, hi int)
}

// MutationOperator perturbs tour in place using positions 0 ≤ i ≤ j < n.
type MutationOperator interface {
	Mutate(tour []int, i, j int)
}

// OrderCrossover copies p1[lo..hi] verbatim, then fills the remaining
// positions starting after hi (wrapping) with p2's cities in p2's cyclic
// order starting after hi, skipping cities already in the copied segment.
// The zero value is ready to use.
type OrderCrossover struct {
	seen []bool // membership of the copied segment, sized lazily to n
}

// Cross implements CrossoverOperator.
//
// Complexity: O(n) time, O(1) amortised extra space.
func (o *OrderCrossover) Cross(dst, p1, p2 []int, lo, hi int) {
	var n = len(p1)
	o.seen = resetMarks(o.seen, n)

	var i int
	for i = lo; i <= hi; i++ {
		dst[i] = p1[i]
		o.seen[p1[i]] = true
	}

	var (
		pos  = (hi + 1) % n
		city int
	)
	for i = 0; i < n; i++ {
		city = p2[(hi+1+i)%n]
		if o.seen[city] {
			continue
		}
		dst[pos] = city
		pos = (pos + 1) % n
	}
}

// PartiallyMappedCrossover (PMX) copies p1[lo..hi] and places every other
// city at its p2 position, following the segment's p1→p2 mapping chain when
// that position's p2 city is already in the segment.
// The zero value is ready to use.
type PartiallyMappedCrossover struct {
	seen []bool // membership of the copied segment
	pos  []int  // pos[c] = index of city c in p1
}

// Cross implements CrossoverOperator.
//
// Complexity: O(n) time; each mapping chain is bounded by the segment length.
func (o *PartiallyMappedCrossover) Cross(dst, p1, p2 []int, lo, hi int) {
	var n = len(p1)
	o.seen = resetMarks(o.seen, n)
	if cap(o.pos) < n {
		o.pos = make([]int, n)
	}
	o.pos = o.pos[:n]

	var i int
	for i = 0; i < n; i++ {
		o.pos[p1[i]] = i
	}
	for i = lo; i <= hi; i++ {
		dst[i] = p1[i]
		o.seen[p1[i]] = true
	}

	var city int
	for i = 0; i < n; i++ {
		if i >= lo && i <= hi {
			continue
		}
		city = p2[i]
		// Follow the mapping until city is not taken by the segment.
		for o.seen[city] {
			city = p2[o.pos[city]]
		}
		dst[i] = city
	}
}

// InversionMutation reverses tour[i..j].
type InversionMutation struct{}

// Mutate implements MutationOperator.
func (InversionMutation) Mutate(tour []int, i, j int) { ReverseSegment(tour, i, j) }

// SwapMutation exchanges tour[i] and tour[j].
type SwapMutation struct{}

// Mutate implements MutationOperator.
func (SwapMutation) Mutate(tour []int, i, j int) { tour[i], tour[j] = tour[j], tour[i] }

// resetMarks returns an all-false slice of length n, reusing buf when possible.
func resetMarks(buf []bool, n int) []bool {
	if cap(buf) < n {
		return make([]bool, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// CrossoverKind selects a built-in CrossoverOperator from configuration.
type CrossoverKind int

const (
	// OrderCrossoverKind selects OrderCrossover (default).
	OrderCrossoverKind CrossoverKind = iota
	// PartiallyMappedCrossoverKind selects PartiallyMappedCrossover.
	PartiallyMappedCrossoverKind
)

// String returns "order" or "pmx".
func (k CrossoverKind) String() string {
	switch k {
	case OrderCrossoverKind:
		return "order"
	case PartiallyMappedCrossoverKind:
		return "pmx"
	default:
		return fmt.Sprintf("crossover(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CrossoverKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CrossoverKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "order", "ox":
		*k = OrderCrossoverKind
	case "pmx", "partially-mapped":
		*k = PartiallyMappedCrossoverKind
	default:
		return configErrorf("Crossover", "%q unknown", string(b))
	}
	return nil
}

// operator instantiates the kind with fresh scratch state.
func (k CrossoverKind) operator() (CrossoverOperator, error) {
	switch k {
	case OrderCrossoverKind:
		return &OrderCrossover{}, nil
	case PartiallyMappedCrossoverKind:
		return &PartiallyMappedCrossover{}, nil
	default:
		return nil, configErrorf("Crossover", "=%d unknown", int(k))
	}
}

// MutationKind selects a built-in MutationOperator from configuration.
type MutationKind int

const (
	// InversionMutationKind selects InversionMutation (default).
	InversionMutationKind MutationKind = iota
	// SwapMutationKind selects SwapMutation.
	SwapMutationKind
)

// String returns "inversion" or "swap".
func (k MutationKind) String() string {
	switch k {
	case InversionMutationKind:
		return "inversion"
	case SwapMutationKind:
		return "swap"
	default:
		return fmt.Sprintf("mutation(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MutationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MutationKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "inversion", "reverse":
		*k = InversionMutationKind
	case "swap":
		*k = SwapMutationKind
	default:
		return configErrorf("Mutation", "%q unknown", string(b))
	}
	return nil
}

// operator instantiates the kind.
func (k MutationKind) operator() (MutationOperator, error) {
	switch k {
	case InversionMutationKind:
		return InversionMutation{}, nil
	case SwapMutationKind:
		return SwapMutation{}, nil
	default:
		return nil, configErrorf("Mutation", "=%d unknown", int(k))
	}
}
