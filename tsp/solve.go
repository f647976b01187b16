// Package tsp - unified dispatcher for the metaheuristic searches.
//
// This file provides the canonical entry points to run a search by name:
//
//   - NewSolver: build a Genetic / Annealing / Colony search over a shared,
//     already validated CostModel (the runner builds one model per instance).
//   - SolveWithMatrix: validate a distance matrix, build the requested search,
//     run it and return its Result.
//
// Design principles:
//   - Strict sentinels: only errors from types.go.
//   - Validation happens before any search state is allocated.
package tsp

import "github.com/katalvlaran/tspmeta/matrix"

// Configs bundles one configuration per algorithm.
type Configs struct {
	Genetic   GeneticConfig   `yaml:"genetic"`
	Annealing AnnealingConfig `yaml:"annealing"`
	Colony    ColonyConfig    `yaml:"colony"`
}

// DefaultConfigs returns the documented defaults for every algorithm.
func DefaultConfigs() Configs {
	return Configs{
		Genetic:   DefaultGeneticConfig(),
		Annealing: DefaultAnnealingConfig(),
		Colony:    DefaultColonyConfig(),
	}
}

// Validate checks every configuration, reporting the first failure.
func (c Configs) Validate() error {
	if err := c.Genetic.Validate(); err != nil {
		return err
	}
	if err := c.Annealing.Validate(); err != nil {
		return err
	}
	return c.Colony.Validate()
}

// NewSolver routes alg to its constructor over cm.
//
// Errors: ErrInvalidConfiguration for an unknown algorithm or a bad config,
// ErrNilCostModel for a nil cm.
func NewSolver(alg Algorithm, cm *CostModel, cfg Configs, opts ...Option) (Solver, error) {
	switch alg {
	case Genetic:
		return NewGeneticWithModel(cm, cfg.Genetic, opts...)
	case Annealing:
		return NewAnnealingWithModel(cm, cfg.Annealing, opts...)
	case Colony:
		return NewColonyWithModel(cm, cfg.Colony, opts...)
	default:
		return nil, configErrorf("Algorithm", "=%d unknown", int(alg))
	}
}

// SolveWithMatrix validates dist, builds the search for alg and runs it.
//
// Complexity: validation O(n²); the rest per algorithm (see doc.go).
func SolveWithMatrix(dist matrix.Matrix, alg Algorithm, cfg Configs, opts ...Option) (Result, error) {
	cm, err := NewCostModel(dist)
	if err != nil {
		return Result{}, err
	}
	s, err := NewSolver(alg, cm, cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Solve(), nil
}
