// Package tsp - single-trajectory simulated-annealing search.
//
// State machine:
//
//	Initialize → { Perturb → Accept?/Reject → Cool } per iteration → Terminate
//
//   - Initialize: a random permutation is both the current state and the incumbent.
//   - Perturb:    positions i, j uniform in [0, n), ordered so i ≤ j; the
//     neighbor reverses tour[i..j] (a 2-opt move on the cycle).
//   - Accept:     Metropolis - always when strictly shorter, otherwise with
//     probability exp((current-next)/T), compared against u ∈ [0, 1).
//   - Cool:       T ← T · CoolingRate after every iteration.
//   - Terminate:  fixed iteration budget; no early exit.
//
// Memory: the current and candidate tours are two preallocated buffers that
// swap roles on acceptance; the loop itself does not allocate.
//
// Complexity: O(Iterations · n).
package tsp

import (
	"math"

	"github.com/katalvlaran/tspmeta/matrix"
)

// Defaults for AnnealingConfig.
const (
	DefaultInitialTemp = 10000.0
	DefaultCoolingRate = 0.9999
	DefaultIterations  = 300000

	// defaultAnnealingReportEvery matches the progress cadence of a console run.
	defaultAnnealingReportEvery = 1000
)

// AnnealingConfig parameterises the Annealing search.
type AnnealingConfig struct {
	InitialTemp float64 `yaml:"initial_temp"`
	CoolingRate float64 `yaml:"cooling_rate"`
	Iterations  int     `yaml:"iterations"`
}

// DefaultAnnealingConfig returns 10000 / 0.9999 / 300000.
func DefaultAnnealingConfig() AnnealingConfig {
	return AnnealingConfig{
		InitialTemp: DefaultInitialTemp,
		CoolingRate: DefaultCoolingRate,
		Iterations:  DefaultIterations,
	}
}

// Validate reports the first out-of-range field as ErrInvalidConfiguration.
func (c AnnealingConfig) Validate() error {
	if err := validatePositive("InitialTemp", c.InitialTemp); err != nil {
		return err
	}
	if math.IsNaN(c.CoolingRate) || c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return configErrorf("CoolingRate", "=%g outside (0,1)", c.CoolingRate)
	}
	return validateAtLeast("Iterations", c.Iterations, 1)
}

// AcceptanceProbability is the Metropolis criterion.
//
//   - next < current                 → 1
//   - next == current                → 1 (exp(0), also at T == 0)
//   - next > current, temperature > 0 → exp((current-next)/temperature)
//   - next > current, temperature ≤ 0 → 0
//
// Complexity: O(1).
func AcceptanceProbability(current, next, temperature float64) float64 {
	if next < current {
		return 1
	}
	var delta = current - next // ≤ 0
	if delta == 0 {
		return 1
	}
	if temperature <= 0 {
		return 0
	}
	return math.Exp(delta / temperature)
}

// AnnealingSearch is a configured simulated-annealing search.
type AnnealingSearch struct {
	cfg AnnealingConfig
	cm  *CostModel
	s   settings
}

var _ Solver = (*AnnealingSearch)(nil)

// NewAnnealing validates dist and cfg and returns a ready search.
//
// Errors: ErrInvalidMatrix (and refinements), ErrInvalidConfiguration.
func NewAnnealing(dist matrix.Matrix, cfg AnnealingConfig, opts ...Option) (*AnnealingSearch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cm, err := NewCostModel(dist)
	if err != nil {
		return nil, err
	}
	return &AnnealingSearch{cfg: cfg, cm: cm, s: resolveSettings(defaultAnnealingReportEvery, opts)}, nil
}

// NewAnnealingWithModel is NewAnnealing over an already validated, shared CostModel.
func NewAnnealingWithModel(cm *CostModel, cfg AnnealingConfig, opts ...Option) (*AnnealingSearch, error) {
	if cm == nil {
		return nil, ErrNilCostModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AnnealingSearch{cfg: cfg, cm: cm, s: resolveSettings(defaultAnnealingReportEvery, opts)}, nil
}

// Algorithm implements Solver.
func (a *AnnealingSearch) Algorithm() Algorithm { return Annealing }

// Config returns the validated configuration.
func (a *AnnealingSearch) Config() AnnealingConfig { return a.cfg }

// Solve runs the annealing schedule to completion and returns the incumbent.
func (a *AnnealingSearch) Solve() Result {
	var (
		n        = a.cm.N()
		cur      = RandomTour(n, a.s.rng)
		cand     = make([]int, n)
		curCost  = a.cm.PathLength(cur)
		best     = Snapshot{Iteration: 0, Tour: CopyTour(cur), Cost: curCost}
		temp     = a.cfg.InitialTemp
		iter     int
		i, j     int
		candCost float64
	)
	a.s.report(Progress{Algorithm: Annealing, Best: best, Current: curCost, Temperature: temp}, false)

	for iter = 1; iter <= a.cfg.Iterations; iter++ {
		// Perturb: reverse a random segment of a copy of the current tour.
		copy(cand, cur)
		i, j = orderedPair(n, a.s.rng)
		ReverseSegment(cand, i, j)
		candCost = a.cm.PathLength(cand)

		// Accept?/Reject.
		if AcceptanceProbability(curCost, candCost, temp) > a.s.rng.Float64() {
			cur, cand = cand, cur
			curCost = candCost
			if curCost < best.Cost {
				best = Snapshot{Iteration: iter, Tour: CopyTour(cur), Cost: curCost}
			}
		}

		a.s.report(Progress{
			Algorithm:   Annealing,
			Iteration:   iter,
			Best:        best,
			Current:     curCost,
			Temperature: temp,
		}, iter == a.cfg.Iterations)

		// Cool regardless of the outcome.
		temp *= a.cfg.CoolingRate
	}

	return Result{
		Algorithm:  Annealing,
		Tour:       CopyTour(best.Tour),
		Cost:       best.Cost,
		Iterations: a.cfg.Iterations,
	}
}
