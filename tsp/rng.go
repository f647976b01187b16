// Package tsp - RNG utilities shared by the metaheuristic searches.
//
// This file centralizes random generation for every search.
//
// Goals:
//   - Determinism: same seed ⇒ identical results across platforms.
//   - Encapsulation: each search owns its own *rand.Rand; nothing reads the
//     process-wide math/rand state.
//   - Production runs without a seed draw their seed from crypto/rand.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use DeriveSeed to create independent streams for parallel runs.
package tsp

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// defaultRNGSeed is the fixed “zero” seed used when callers pass seed==0.
// The value is arbitrary but stable to keep reproducible defaults.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use defaultRNGSeed; otherwise use the provided seed verbatim.
//
// Complexity: O(1).
func rngFromSeed(seed int64) *rand.Rand {
	var s int64
	s = seed
	if s == 0 {
		s = defaultRNGSeed
	}
	return rand.New(rand.NewSource(s))
}

// EntropySeed returns a fresh seed from the operating system's CSPRNG,
// falling back to the wall clock if the entropy source is unavailable.
// Callers log it so an entropy-seeded run can be replayed with WithSeed.
//
// Complexity: O(1).
func EntropySeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// rngFromEntropy returns a *rand.Rand seeded from EntropySeed.
func rngFromEntropy() *rand.Rand {
	return rngFromSeed(EntropySeed())
}

// DeriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed.
//
// Rationale:
//   - The runner derives one independent stream per (algorithm, run) pair from
//     a single master seed, so any single run can be replayed in isolation.
//   - We apply a SplitMix64-style avalanche mix to eliminate correlations.
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	// SplitMix64-style finalizer; see Vigna 2014 for the constants.
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// shuffleIntsInPlace performs an in-place Fisher–Yates shuffle of a using rng.
//
// Complexity: O(n) time, O(1) extra space.
func shuffleIntsInPlace(a []int, rng *rand.Rand) {
	var (
		n = len(a)
		i int
		j int
	)
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

// orderedPair draws i, j uniformly from [0, n) and returns them with i ≤ j.
//
// Complexity: O(1).
func orderedPair(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n)
	if i > j {
		i, j = j, i
	}
	return i, j
}
