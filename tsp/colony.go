// Package tsp - colony-based stigmergic search (Ant System).
//
// State machine:
//
//	Initialize pheromones → { Construct all ants → Update pheromones → Track best } per iteration → Terminate
//
//   - Initialize: τ(i,j) = InitialPheromone (1.0) for every edge.
//   - Construct:  each ant starts at a uniform random city and repeatedly picks
//     the next unvisited city c by roulette over τ(cur,c)^Alpha · (1/d(cur,c))^Beta.
//   - Update:     deposits Q/length on every edge of every ant tour (both
//     directions, closing edge included) are staged while ants run; after all
//     ants finish, the whole matrix evaporates by (1 - EvaporationRate) and then
//     the staged deposits are merged. Evaporation never sees a partial deposit set.
//   - Track best: an ant tour strictly shorter than the incumbent replaces it.
//   - Terminate:  fixed iteration budget.
//
// Because τ is constant while ants construct, the edge weights are computed
// once per iteration (n² Pow calls) instead of once per ant step.
//
// Complexity: O(Iterations · (Ants · n² + n²)).
package tsp

import (
	"math"

	"github.com/katalvlaran/tspmeta/matrix"
)

// Defaults for ColonyConfig.
const (
	DefaultAnts             = 100
	DefaultColonyIterations = 50
	DefaultAlpha            = 1.5
	DefaultBeta             = 1.5
	DefaultEvaporationRate  = 0.5
	DefaultQ                = 500.0
	DefaultInitialPheromone = 1.0
)

// ColonyConfig parameterises the Colony search.
type ColonyConfig struct {
	Ants             int     `yaml:"ants"`
	Iterations       int     `yaml:"iterations"`
	Alpha            float64 `yaml:"alpha"`
	Beta             float64 `yaml:"beta"`
	EvaporationRate  float64 `yaml:"evaporation_rate"`
	Q                float64 `yaml:"q"`
	InitialPheromone float64 `yaml:"initial_pheromone"`
}

// DefaultColonyConfig returns 100 ants / 50 iterations / α=1.5 / β=1.5 /
// ρ=0.5 / Q=500 with τ₀=1.
func DefaultColonyConfig() ColonyConfig {
	return ColonyConfig{
		Ants:             DefaultAnts,
		Iterations:       DefaultColonyIterations,
		Alpha:            DefaultAlpha,
		Beta:             DefaultBeta,
		EvaporationRate:  DefaultEvaporationRate,
		Q:                DefaultQ,
		InitialPheromone: DefaultInitialPheromone,
	}
}

// Validate reports the first out-of-range field as ErrInvalidConfiguration.
func (c ColonyConfig) Validate() error {
	if err := validateAtLeast("Ants", c.Ants, 1); err != nil {
		return err
	}
	if err := validateAtLeast("Iterations", c.Iterations, 1); err != nil {
		return err
	}
	if err := validateNonNegative("Alpha", c.Alpha); err != nil {
		return err
	}
	if err := validateNonNegative("Beta", c.Beta); err != nil {
		return err
	}
	if err := validateRate("EvaporationRate", c.EvaporationRate); err != nil {
		return err
	}
	if err := validatePositive("Q", c.Q); err != nil {
		return err
	}
	return validatePositive("InitialPheromone", c.InitialPheromone)
}

// ColonySearch is a configured ant-colony search. It exclusively owns its
// pheromone matrix; one goroutine at a time.
type ColonySearch struct {
	cfg ColonyConfig
	cm  *CostModel
	s   settings
	n   int

	tau    []float64 // pheromone τ, row-major n×n
	stage  []float64 // deposits staged during the current iteration
	eta    []float64 // (1/d)^Beta, constant for the colony's lifetime
	weight []float64 // τ^Alpha · η, refreshed once per iteration

	best    Snapshot
	hasBest bool
	iter    int

	// per-ant scratch
	visited []bool
	probs   []float64
}

var _ Solver = (*ColonySearch)(nil)

// NewColony validates dist and cfg and returns a search with a fresh,
// uniform pheromone matrix.
//
// Errors: ErrInvalidMatrix (and refinements), ErrInvalidConfiguration.
func NewColony(dist matrix.Matrix, cfg ColonyConfig, opts ...Option) (*ColonySearch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cm, err := NewCostModel(dist)
	if err != nil {
		return nil, err
	}
	return newColony(cm, cfg, opts), nil
}

// NewColonyWithModel is NewColony over an already validated, shared CostModel.
func NewColonyWithModel(cm *CostModel, cfg ColonyConfig, opts ...Option) (*ColonySearch, error) {
	if cm == nil {
		return nil, ErrNilCostModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newColony(cm, cfg, opts), nil
}

func newColony(cm *CostModel, cfg ColonyConfig, opts []Option) *ColonySearch {
	var n = cm.N()
	c := &ColonySearch{
		cfg:     cfg,
		cm:      cm,
		s:       resolveSettings(1, opts),
		n:       n,
		tau:     make([]float64, n*n),
		stage:   make([]float64, n*n),
		eta:     make([]float64, n*n),
		weight:  make([]float64, n*n),
		visited: make([]bool, n),
		probs:   make([]float64, n),
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i != j {
				c.eta[i*n+j] = math.Pow(1/cm.Distance(i, j), cfg.Beta)
			}
		}
	}
	c.reset()
	return c
}

// reset restores the uniform pheromone matrix and forgets the incumbent.
func (c *ColonySearch) reset() {
	var k int
	for k = range c.tau {
		c.tau[k] = c.cfg.InitialPheromone
		c.stage[k] = 0
	}
	c.best = Snapshot{}
	c.hasBest = false
	c.iter = 0
}

// Algorithm implements Solver.
func (c *ColonySearch) Algorithm() Algorithm { return Colony }

// Config returns the validated configuration.
func (c *ColonySearch) Config() ColonyConfig { return c.cfg }

// Solve resets the pheromone matrix, runs Iterations iterations and returns the incumbent.
func (c *ColonySearch) Solve() Result {
	c.reset()
	var it int
	for it = 1; it <= c.cfg.Iterations; it++ {
		c.Iterate()
	}
	return Result{
		Algorithm:  Colony,
		Tour:       CopyTour(c.best.Tour),
		Cost:       c.best.Cost,
		Iterations: c.cfg.Iterations,
	}
}

// Iterate runs exactly one iteration (construct every ant, update pheromones,
// track the incumbent) on the current pheromone state and returns the incumbent.
func (c *ColonySearch) Iterate() Snapshot {
	c.iter++
	c.refreshWeights()

	var (
		ant     int
		tour    []int
		length  float64
		iterMin = math.Inf(1)
	)
	for ant = 0; ant < c.cfg.Ants; ant++ {
		tour = c.constructTour()
		length = c.cm.PathLength(tour)
		c.stageDeposit(tour, length)
		if length < iterMin {
			iterMin = length
		}
		if !c.hasBest || length < c.best.Cost {
			c.best = Snapshot{Iteration: c.iter, Tour: tour, Cost: length} // tour is freshly allocated
			c.hasBest = true
		}
	}
	c.updatePheromones()

	c.s.report(Progress{
		Algorithm: Colony,
		Iteration: c.iter,
		Best:      c.Best(),
		Current:   iterMin,
	}, c.iter == c.cfg.Iterations)

	return c.Best()
}

// Best returns a copy of the incumbent (zero Snapshot before the first iteration).
func (c *ColonySearch) Best() Snapshot {
	b := c.best
	b.Tour = CopyTour(c.best.Tour)
	return b
}

// Pheromones returns a deep copy of τ. It fails with matrix.ErrNaNInf only
// when degenerate zero-length tours have driven τ to +Inf.
func (c *ColonySearch) Pheromones() (*matrix.Dense, error) {
	m, err := matrix.NewDense(c.n, c.n)
	if err != nil {
		return nil, err
	}
	var i, j int
	for i = 0; i < c.n; i++ {
		for j = 0; j < c.n; j++ {
			if err = m.Set(i, j, c.tau[i*c.n+j]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// refreshWeights recomputes τ^Alpha · η for every off-diagonal edge.
//
// Complexity: O(n²).
func (c *ColonySearch) refreshWeights() {
	var (
		n    = c.n
		i, j int
		k    int
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			k = i*n + j
			c.weight[k] = math.Pow(c.tau[k], c.cfg.Alpha) * c.eta[k]
		}
	}
}

// constructTour builds one ant's tour by roulette-wheel sampling.
//
// Degenerate weights are resolved deterministically:
//   - NaN weights count as 0;
//   - a +Inf weight wins outright (first such candidate in index order);
//   - a zero total picks uniformly among unvisited cities;
//   - a city is taken once the cumulative weight strictly exceeds u·total, so
//     zero-weight cities are skipped while the total is positive;
//   - floating shortfall in the cumulative sum picks the last unvisited city.
//
// Exactly one uniform draw is consumed per step, plus one for the start city.
//
// Complexity: O(n²).
func (c *ColonySearch) constructTour() []int {
	var (
		n    = c.n
		tour = make([]int, n)
		step int
	)
	clear(c.visited)
	tour[0] = c.s.rng.Intn(n)
	c.visited[tour[0]] = true

	for step = 1; step < n; step++ {
		tour[step] = c.pickNext(tour[step-1])
		c.visited[tour[step]] = true
	}
	return tour
}

// pickNext performs one roulette-wheel draw from city cur.
func (c *ColonySearch) pickNext(cur int) int {
	var (
		n       = c.n
		row     = c.weight[cur*n : cur*n+n]
		total   float64
		w       float64
		next    int
		infAt   = -1
		last    = -1
		unvisit int
		u       = c.s.rng.Float64()
	)
	for next = 0; next < n; next++ {
		if c.visited[next] {
			continue
		}
		w = row[next]
		if math.IsNaN(w) {
			w = 0
		}
		if math.IsInf(w, 1) && infAt < 0 {
			infAt = next
		}
		c.probs[next] = w
		total += w
		last = next
		unvisit++
	}

	switch {
	case infAt >= 0:
		return infAt
	case !(total > 0):
		return c.nthUnvisited(int(u * float64(unvisit)))
	}

	var (
		target     = u * total
		cumulative float64
	)
	for next = 0; next < n; next++ {
		if c.visited[next] {
			continue
		}
		cumulative += c.probs[next]
		if cumulative > target {
			return next
		}
	}
	return last
}

// nthUnvisited returns the k-th unvisited city in index order (k clamped).
func (c *ColonySearch) nthUnvisited(k int) int {
	var (
		next int
		last = -1
	)
	for next = 0; next < c.n; next++ {
		if c.visited[next] {
			continue
		}
		if k == 0 {
			return next
		}
		k--
		last = next
	}
	return last
}

// stageDeposit accumulates Q/length on every edge of tour, both directions,
// closing edge included, into the staging matrix.
//
// Complexity: O(n).
func (c *ColonySearch) stageDeposit(tour []int, length float64) {
	var (
		n     = c.n
		delta = c.cfg.Q / length
		i     int
		u, v  int
	)
	for i = 0; i < n; i++ {
		u = tour[i]
		v = tour[(i+1)%n]
		c.stage[u*n+v] += delta
		c.stage[v*n+u] += delta
	}
}

// updatePheromones evaporates the whole matrix, then merges and clears the
// staged deposits. With an empty stage the result is exactly τ·(1-ρ).
//
// Complexity: O(n²).
func (c *ColonySearch) updatePheromones() {
	var (
		keep = 1 - c.cfg.EvaporationRate
		k    int
	)
	for k = range c.tau {
		c.tau[k] *= keep
	}
	for k = range c.tau {
		c.tau[k] += c.stage[k]
		c.stage[k] = 0
	}
}
