// Package tsp - Held–Karp 1-tree lower bound.
//
// OneTreeBound gives an admissible lower bound on the optimal tour length, used
// to report how far a search result can at most be from optimal.
//
//   - City 0 is the root. For multipliers π define reduced costs
//     c'(i,j) = d(i,j) + π_i + π_j.
//   - A minimum 1-tree T(π) is a Prim MST over the other cities under c', plus
//     the two cheapest root edges.
//   - L(π) = c'(T(π)) − 2·Σπ_i never exceeds the optimum, for every π.
//   - π moves along the subgradient s_i = deg_T(i) − 2. The loop stops once
//     T(π) is itself a tour (s = 0).
//
// Step size: t = Alpha·(upper − L)/‖s‖² when a finite upper bound is given,
// otherwise t = Alpha·(L/n)/(1 + iter). Neither depends on the iteration
// budget, so a larger budget never lowers the result.
//
// Determinism: no RNG, ties are broken by city index.
//
// Complexity: O(iters · n²) time, O(n) extra space over the CostModel.
package tsp

import "math"

const (
	// DefaultBoundIterations is the subgradient budget used when 0 is passed.
	DefaultBoundIterations = 100
	boundAlpha             = 0.9
)

// OneTreeBound returns the best L(π) seen within maxIter subgradient steps
// (0 ⇒ DefaultBoundIterations). upper is an optional known tour length
// (≤ 0, NaN or +Inf disables it). For n ≤ 3 the tour is unique and its exact
// length is returned.
func OneTreeBound(cm *CostModel, upper float64, maxIter int) float64 {
	n := cm.N()
	if n <= 3 {
		return cm.PathLength(IdentityTour(n))
	}
	if maxIter <= 0 {
		maxIter = DefaultBoundIterations
	}
	haveUpper := upper > 0 && !math.IsInf(upper, 1) // NaN fails the first test

	e := oneTree{
		cm:     cm,
		pi:     make([]float64, n),
		deg:    make([]int, n),
		inTree: make([]bool, n),
		parent: make([]int, n),
		key:    make([]float64, n),
	}

	var (
		best  = math.Inf(-1)
		bound float64
		sumPi float64
		norm2 float64
		step  float64
		s     int
		i     int
	)
	for iter := 0; iter < maxIter; iter++ {
		sumPi = 0
		for i = 0; i < n; i++ {
			sumPi += e.pi[i]
		}
		bound = e.build() - 2*sumPi
		if bound > best {
			best = bound
		}

		norm2 = 0
		for i = 0; i < n; i++ {
			s = e.deg[i] - 2
			norm2 += float64(s * s)
		}
		if norm2 == 0 {
			break // T(π) is a tour, so L(π) is its length
		}

		if haveUpper {
			step = boundAlpha * math.Max(upper-bound, 0) / norm2
		} else {
			step = boundAlpha * (bound / float64(n)) / (1 + float64(iter))
		}
		if step <= 0 {
			break
		}
		for i = 0; i < n; i++ {
			e.pi[i] += step * float64(e.deg[i]-2)
		}
	}

	return best
}

// oneTree holds the reusable working state of the bound computation.
type oneTree struct {
	cm     *CostModel
	pi     []float64
	deg    []int
	inTree []bool
	parent []int
	key    []float64
}

func (e *oneTree) reduced(u, v int) float64 {
	return e.cm.Distance(u, v) + e.pi[u] + e.pi[v]
}

// build constructs a minimum 1-tree rooted at city 0 under reduced costs,
// fills deg and returns its reduced cost. Costs are finite and the graph is
// complete, so a 1-tree always exists for n ≥ 3.
func (e *oneTree) build() float64 {
	const root = 0
	var (
		n     = e.cm.N()
		total float64
		c     float64
		v     int
		best  int
	)
	for v = 0; v < n; v++ {
		e.deg[v] = 0
		e.inTree[v] = false
		e.parent[v] = -1
		e.key[v] = math.Inf(1)
	}
	e.key[1] = 0

	// Prim over cities 1..n-1.
	for it := 1; it < n; it++ {
		best = -1
		for v = 1; v < n; v++ {
			if !e.inTree[v] && (best == -1 || e.key[v] < e.key[best]) {
				best = v
			}
		}
		e.inTree[best] = true
		if p := e.parent[best]; p != -1 {
			total += e.reduced(best, p)
			e.deg[best]++
			e.deg[p]++
		}
		for v = 1; v < n; v++ {
			if e.inTree[v] {
				continue
			}
			if c = e.reduced(best, v); c < e.key[v] {
				e.key[v] = c
				e.parent[v] = best
			}
		}
	}

	// Two cheapest root edges.
	var (
		m1, m2     = math.Inf(1), math.Inf(1)
		m1To, m2To = -1, -1
	)
	for v = 1; v < n; v++ {
		c = e.reduced(root, v)
		switch {
		case c < m1:
			m2, m2To = m1, m1To
			m1, m1To = c, v
		case c < m2:
			m2, m2To = c, v
		}
	}
	total += m1 + m2
	e.deg[root] += 2
	e.deg[m1To]++
	e.deg[m2To]++

	return total
}
