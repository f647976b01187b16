// Package tsp - population-based evolutionary search.
//
// State machine:
//
//	Initialize → { Select → Crossover → Mutate → Evaluate } per generation → Terminate
//
//   - Initialize: PopulationSize random shuffles of the identity tour.
//   - Select:     tournament of TournamentSize draws WITH replacement per slot;
//     highest fitness wins, ties → first drawn.
//   - Crossover:  consecutive selected pairs, probability CrossoverRate, cut
//     points p1 ≤ p2 uniform in [0, n); otherwise children copy the parents.
//   - Mutate:     each child, probability MutationRate, positions i ≤ j.
//   - Odd size:   one extra child from (first selected, last selected).
//   - Terminate:  after Generations, or when the incumbent has not strictly
//     improved for StagnationLimit consecutive generations.
//
// Memory: two population buffers are allocated once and swapped every
// generation; parents are read from one while children are written to the other.
//
// Complexity: O(Generations · PopulationSize · (TournamentSize + n)).
package tsp

import "github.com/katalvlaran/tspmeta/matrix"

// Defaults for GeneticConfig.
const (
	DefaultPopulationSize  = 500
	DefaultGenerations     = 1000
	DefaultMutationRate    = 0.2
	DefaultCrossoverRate   = 0.95
	DefaultTournamentSize  = 7
	DefaultStagnationLimit = 100
)

// GeneticConfig parameterises the Genetic search.
type GeneticConfig struct {
	PopulationSize  int           `yaml:"population_size"`
	Generations     int           `yaml:"generations"`
	MutationRate    float64       `yaml:"mutation_rate"`
	CrossoverRate   float64       `yaml:"crossover_rate"`
	TournamentSize  int           `yaml:"tournament_size"`
	StagnationLimit int           `yaml:"stagnation_limit"`
	Crossover       CrossoverKind `yaml:"crossover"`
	Mutation        MutationKind  `yaml:"mutation"`
}

// DefaultGeneticConfig returns 500 / 1000 / 0.2 / 0.95 / 7 with a stagnation
// limit of 100, order crossover and inversion mutation.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize:  DefaultPopulationSize,
		Generations:     DefaultGenerations,
		MutationRate:    DefaultMutationRate,
		CrossoverRate:   DefaultCrossoverRate,
		TournamentSize:  DefaultTournamentSize,
		StagnationLimit: DefaultStagnationLimit,
		Crossover:       OrderCrossoverKind,
		Mutation:        InversionMutationKind,
	}
}

// Validate reports the first out-of-range field as ErrInvalidConfiguration.
func (c GeneticConfig) Validate() error {
	if err := validateAtLeast("PopulationSize", c.PopulationSize, 1); err != nil {
		return err
	}
	if err := validateAtLeast("Generations", c.Generations, 1); err != nil {
		return err
	}
	if err := validateRate("MutationRate", c.MutationRate); err != nil {
		return err
	}
	if err := validateRate("CrossoverRate", c.CrossoverRate); err != nil {
		return err
	}
	if err := validateAtLeast("TournamentSize", c.TournamentSize, 1); err != nil {
		return err
	}
	if c.TournamentSize > c.PopulationSize {
		return configErrorf("TournamentSize", "=%d exceeds PopulationSize=%d", c.TournamentSize, c.PopulationSize)
	}
	if err := validateAtLeast("StagnationLimit", c.StagnationLimit, 1); err != nil {
		return err
	}
	if _, err := c.Crossover.operator(); err != nil {
		return err
	}
	if _, err := c.Mutation.operator(); err != nil {
		return err
	}
	return nil
}

// Individual is a tour paired with its length and fitness 1/length.
type Individual struct {
	Tour    []int
	Length  float64
	Fitness float64
}

// BestIndividual returns the index of the highest-fitness individual.
// Scan uses a strict '>' from index 0, so the first of equal maxima wins.
// Returns -1 for an empty population.
//
// Complexity: O(len(pop)).
func BestIndividual(pop []Individual) int {
	if len(pop) == 0 {
		return -1
	}
	var (
		best = 0
		i    int
	)
	for i = 1; i < len(pop); i++ {
		if pop[i].Fitness > pop[best].Fitness {
			best = i
		}
	}
	return best
}

// GeneticSearch is a configured, single-use-at-a-time evolutionary search.
// Solve may be called repeatedly; each call continues the RNG stream.
type GeneticSearch struct {
	cfg   GeneticConfig
	cm    *CostModel
	s     settings
	cross CrossoverOperator
	mut   MutationOperator
}

var _ Solver = (*GeneticSearch)(nil)

// NewGenetic validates dist and cfg and returns a ready search.
//
// Errors: ErrInvalidMatrix (and refinements), ErrInvalidConfiguration.
func NewGenetic(dist matrix.Matrix, cfg GeneticConfig, opts ...Option) (*GeneticSearch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cm, err := NewCostModel(dist)
	if err != nil {
		return nil, err
	}
	return newGenetic(cm, cfg, opts...)
}

// NewGeneticWithModel is NewGenetic over an already validated, shared CostModel.
func NewGeneticWithModel(cm *CostModel, cfg GeneticConfig, opts ...Option) (*GeneticSearch, error) {
	if cm == nil {
		return nil, ErrNilCostModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGenetic(cm, cfg, opts...)
}

func newGenetic(cm *CostModel, cfg GeneticConfig, opts ...Option) (*GeneticSearch, error) {
	cross, _ := cfg.Crossover.operator() // validated above
	mut, _ := cfg.Mutation.operator()
	return &GeneticSearch{
		cfg:   cfg,
		cm:    cm,
		s:     resolveSettings(1, opts),
		cross: cross,
		mut:   mut,
	}, nil
}

// Algorithm implements Solver.
func (g *GeneticSearch) Algorithm() Algorithm { return Genetic }

// Config returns the validated configuration.
func (g *GeneticSearch) Config() GeneticConfig { return g.cfg }

// Solve runs the evolutionary loop to completion and returns the incumbent.
func (g *GeneticSearch) Solve() Result {
	var (
		size = g.cfg.PopulationSize
		pop  = g.initializePopulation()
		next = make([]Individual, size)
		sel  = make([]int, size)
		i    int
	)
	for i = range next {
		next[i].Tour = make([]int, g.cm.N())
	}

	var (
		first   = BestIndividual(pop)
		best    = g.snapshot(pop, first, 0)
		bestFit = pop[first].Fitness
	)
	g.s.report(Progress{Algorithm: Genetic, Iteration: 0, Best: best, Current: best.Cost}, false)

	var (
		gen        int
		stagnation int
		stagnated  bool
		genBest    int
	)
	for gen = 1; gen <= g.cfg.Generations; gen++ {
		g.selection(pop, sel)
		g.reproduce(pop, sel, next)
		g.evaluate(next)
		pop, next = next, pop

		genBest = BestIndividual(pop)
		if pop[genBest].Fitness > bestFit {
			best = g.snapshot(pop, genBest, gen)
			bestFit = pop[genBest].Fitness
			stagnation = 0
		} else {
			stagnation++
		}
		if stagnation >= g.cfg.StagnationLimit {
			stagnated = true
		}

		g.s.report(Progress{
			Algorithm: Genetic,
			Iteration: gen,
			Best:      best,
			Current:   pop[genBest].Length,
		}, stagnated || gen == g.cfg.Generations)

		if stagnated {
			break
		}
	}
	if gen > g.cfg.Generations {
		gen = g.cfg.Generations
	}

	return Result{
		Algorithm:  Genetic,
		Tour:       CopyTour(best.Tour),
		Cost:       best.Cost,
		Iterations: gen,
		Stagnated:  stagnated,
	}
}

// snapshot copies pop[idx] into an immutable incumbent.
func (g *GeneticSearch) snapshot(pop []Individual, idx, gen int) Snapshot {
	return Snapshot{Iteration: gen, Tour: CopyTour(pop[idx].Tour), Cost: pop[idx].Length}
}

// initializePopulation shuffles a running copy of the identity tour
// PopulationSize times, snapshotting after every shuffle.
//
// Complexity: O(PopulationSize · n).
func (g *GeneticSearch) initializePopulation() []Individual {
	var (
		n    = g.cm.N()
		path = IdentityTour(n)
		pop  = make([]Individual, g.cfg.PopulationSize)
		i    int
	)
	for i = range pop {
		shuffleIntsInPlace(path, g.s.rng)
		pop[i].Tour = CopyTour(path)
	}
	g.evaluate(pop)
	return pop
}

// evaluate recomputes length and fitness for every individual.
func (g *GeneticSearch) evaluate(pop []Individual) {
	var i int
	for i = range pop {
		pop[i].Length = g.cm.PathLength(pop[i].Tour)
		pop[i].Fitness = 1 / pop[i].Length
	}
}

// selection fills sel with tournament winners' indices into pop.
//
// Complexity: O(PopulationSize · TournamentSize).
func (g *GeneticSearch) selection(pop []Individual, sel []int) {
	var (
		size = len(pop)
		i, j int
		win  int
		cand int
	)
	for i = range sel {
		win = g.s.rng.Intn(size)
		for j = 1; j < g.cfg.TournamentSize; j++ {
			cand = g.s.rng.Intn(size)
			if pop[cand].Fitness > pop[win].Fitness {
				win = cand
			}
		}
		sel[i] = win
	}
}

// reproduce writes the next generation into next (tours are overwritten in place).
func (g *GeneticSearch) reproduce(pop []Individual, sel []int, next []Individual) {
	var (
		size = len(sel)
		i    int
	)
	for i = 0; i+1 < size; i += 2 {
		g.crossover(pop[sel[i]].Tour, pop[sel[i+1]].Tour, next[i].Tour, next[i+1].Tour)
		g.mutate(next[i].Tour)
		g.mutate(next[i+1].Tour)
	}
	if size%2 == 1 {
		// Odd population: first child of (first, last) selected; its sibling is discarded.
		last := next[size-1].Tour
		g.crossover(pop[sel[0]].Tour, pop[sel[size-1]].Tour, last, nil)
		g.mutate(last)
	}
}

// crossover writes up to two children; c2 == nil drops the second child
// while consuming the RNG exactly as if it were produced.
func (g *GeneticSearch) crossover(p1, p2, c1, c2 []int) {
	if g.s.rng.Float64() < g.cfg.CrossoverRate {
		lo, hi := orderedPair(len(p1), g.s.rng)
		g.cross.Cross(c1, p1, p2, lo, hi)
		if c2 != nil {
			g.cross.Cross(c2, p2, p1, lo, hi)
		}
		return
	}
	copy(c1, p1)
	if c2 != nil {
		copy(c2, p2)
	}
}

// mutate applies the mutation operator with probability MutationRate.
func (g *GeneticSearch) mutate(tour []int) {
	if g.s.rng.Float64() < g.cfg.MutationRate {
		i, j := orderedPair(len(tour), g.s.rng)
		g.mut.Mutate(tour, i, j)
	}
}
