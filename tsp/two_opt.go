// Package tsp - 2-opt local search polish.
//
// TwoOpt performs deterministic first-improvement 2-opt on a cyclic tour.
// Reversing tour[i..k] replaces edges (a,b) and (c,d) with (a,c) and (b,d):
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d),  a=T[i−1], b=T[i], c=T[k], d=T[k+1]
//
// (indices modulo n). A move is applied when Δ < −DefaultEps, and the scan
// restarts from the beginning after every applied move.
//
// It is an optional post-pass for any search result; it never runs inside the
// three searches themselves.
//
// Complexity:
//   - One scan: O(n²) candidate checks, O(n) per applied move.
//   - Overall: O(moves · n²) time, O(n) extra space.
package tsp

// DefaultEps is the strict improvement threshold for local-search moves.
const DefaultEps = 1e-12

// TwoOpt improves tour with first-improvement 2-opt and returns a fresh tour
// and its length. maxMoves bounds the number of applied moves (0 ⇒ run to a
// local optimum). The input tour is not modified.
//
// Contract: tour is a permutation of [0, cm.N()).
func TwoOpt(cm *CostModel, tour []int, maxMoves int) ([]int, float64) {
	var (
		n   = len(tour)
		cur = CopyTour(tour)
	)
	if n < 4 {
		// Every 2-opt move on fewer than four cities reproduces the same cycle.
		return cur, cm.PathLength(cur)
	}

	var (
		accepted int
		improved = true
		i, k     int
		a, b     int
		c, d     int
		delta    float64
	)
	for improved && (maxMoves == 0 || accepted < maxMoves) {
		improved = false

	scan:
		for i = 0; i < n-1; i++ {
			for k = i + 1; k < n; k++ {
				if k-i+1 >= n-1 {
					// Reversing n-1 or n cities mirrors the whole cycle: Δ ≡ 0.
					continue
				}
				a = cur[(i-1+n)%n]
				b = cur[i]
				c = cur[k]
				d = cur[(k+1)%n]
				delta = cm.Distance(a, c) + cm.Distance(b, d) - cm.Distance(a, b) - cm.Distance(c, d)
				if delta < -DefaultEps {
					ReverseSegment(cur, i, k)
					accepted++
					improved = true
					break scan
				}
			}
		}
	}

	// Recompute instead of accumulating deltas to keep the cost free of drift.
	return cur, cm.PathLength(cur)
}
