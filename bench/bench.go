// Package bench runs the tsp searches as a reproducible benchmark.
//
// A Runner executes every configured algorithm Runs times on one instance.
// Each (algorithm, run) pair gets its own search seeded with
//
//	tsp.DeriveSeed(master, uint64(algorithm)<<32 | uint64(run))
//
// so any single run can be replayed in isolation and results do not depend on
// scheduling or on the order of the algorithm list. Runs execute on a bounded
// worker pool; every search itself stays single-threaded and shares one
// read-only tsp.CostModel.
//
// For every finished run the Runner optionally applies the 2-opt polish,
// re-checks that the tour is a permutation, records it in the store, updates
// the metrics and logs a summary line. Run returns a Report with per-algorithm
// statistics and each algorithm's gap to the Held–Karp 1-tree lower bound.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/katalvlaran/tspmeta/config"
	"github.com/katalvlaran/tspmeta/matrix"
	"github.com/katalvlaran/tspmeta/metrics"
	"github.com/katalvlaran/tspmeta/store"
	"github.com/katalvlaran/tspmeta/tsp"
)

// ErrBrokenTour is returned when a search hands back a tour that is not a
// permutation of the instance's cities.
var ErrBrokenTour = errors.New("bench: search returned an invalid tour")

// Runner drives the benchmark. Build it with New; Run may be called repeatedly.
type Runner struct {
	cfg      config.Config
	cm       *tsp.CostModel
	seed     int64
	instance string

	log         *zap.Logger
	metrics     *metrics.Collector
	store       store.Store
	concurrency int
}

// job is one (algorithm, run) pair.
type job struct {
	alg  tsp.Algorithm
	run  int
	seed int64
}

// New validates cfg and dist. A zero cfg.Seed is replaced by fresh entropy,
// which is logged so the benchmark can be replayed.
//
// Errors: config.ErrConfig, tsp.ErrInvalidConfiguration, tsp.ErrInvalidMatrix.
func New(cfg config.Config, dist matrix.Matrix, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cm, err := tsp.NewCostModel(dist)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:         cfg,
		cm:          cm,
		seed:        cfg.Seed,
		instance:    "random",
		log:         zap.NewNop(),
		store:       store.NewMemory(),
		concurrency: 1,
	}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	if r.seed == 0 {
		r.seed = tsp.EntropySeed()
		r.log.Info("no seed configured, drew one from entropy", zap.Int64("seed", r.seed))
	}

	return r, nil
}

// Seed returns the master seed in use.
func (r *Runner) Seed() int64 { return r.seed }

// Cities returns the instance size.
func (r *Runner) Cities() int { return r.cm.N() }

// jobs lists every (algorithm, run) pair in configuration order.
func (r *Runner) jobs() []job {
	out := make([]job, 0, len(r.cfg.Algorithms)*r.cfg.Runs)
	for _, alg := range r.cfg.Algorithms {
		for run := 0; run < r.cfg.Runs; run++ {
			out = append(out, job{alg: alg, run: run, seed: RunSeed(r.seed, alg, run)})
		}
	}
	return out
}

// RunSeed is the seed of one (algorithm, run) pair under a master seed.
func RunSeed(master int64, alg tsp.Algorithm, run int) int64 {
	return tsp.DeriveSeed(master, uint64(alg)<<32|uint64(run))
}

// Run executes every job and aggregates the results. Cancelling ctx stops new
// runs from starting; searches already running finish. The Report always
// covers the runs that completed, and the error joins ctx.Err() with any
// per-run failures.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var (
		jobs    = r.jobs()
		records = make([]store.RunRecord, len(jobs))
		done    = make([]bool, len(jobs))
		p       = pool.New().WithErrors().WithMaxGoroutines(r.concurrency)
		start   = time.Now()
	)
	r.log.Info("benchmark started",
		zap.String("instance", r.instance),
		zap.Int("cities", r.cm.N()),
		zap.Int64("seed", r.seed),
		zap.Int("runs", r.cfg.Runs),
		zap.Stringers("algorithms", r.cfg.Algorithms),
		zap.Int("concurrency", r.concurrency),
	)

	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		i := i
		p.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec, err := r.runOne(ctx, jobs[i])
			if err != nil {
				return err
			}
			records[i] = rec
			done[i] = true
			return nil
		})
	}
	err := p.Wait()

	var finished []store.RunRecord
	for i := range jobs {
		if done[i] {
			finished = append(finished, records[i])
		}
	}
	var lb float64
	if len(finished) > 0 {
		upper := finished[0].Cost
		for _, rec := range finished[1:] {
			upper = math.Min(upper, rec.Cost)
		}
		lb = tsp.OneTreeBound(r.cm, upper, 0)
	}
	rep := newReport(r.instance, r.cm.N(), r.seed, r.cfg.Algorithms, finished, lb, time.Since(start))
	err = errors.Join(ctx.Err(), err)

	if err != nil {
		r.log.Warn("benchmark incomplete", zap.Int("completed", len(finished)), zap.Int("planned", len(jobs)), zap.Error(err))
	} else {
		r.log.Info("benchmark finished",
			zap.Int("completed", len(finished)),
			zap.Float64("lower_bound", rep.LowerBound),
			zap.Duration("elapsed", rep.Elapsed),
		)
	}
	return rep, err
}

// runOne builds, runs, checks and records a single search.
func (r *Runner) runOne(ctx context.Context, j job) (store.RunRecord, error) {
	var (
		log = r.log.With(zap.Stringer("algorithm", j.alg), zap.Int("run", j.run), zap.Int64("seed", j.seed))
		opt = []tsp.Option{tsp.WithSeed(j.seed), tsp.WithReportEvery(r.cfg.ReportEvery)}
	)
	if obs := r.observer(j.alg, log); obs != nil {
		opt = append(opt, tsp.WithObserver(obs))
	}

	started := time.Now()
	s, err := tsp.NewSolver(j.alg, r.cm, r.cfg.Configs, opt...)
	if err != nil {
		r.finish(j.alg, started, err)
		return store.RunRecord{}, fmt.Errorf("bench: %s run %d: %w", j.alg, j.run, err)
	}
	res := s.Solve()

	polished := false
	if r.cfg.Polish {
		tour, cost := tsp.TwoOpt(r.cm, res.Tour, 0)
		if cost < res.Cost {
			log.Debug("2-opt improved tour", zap.Float64("before", res.Cost), zap.Float64("after", cost))
			res.Tour, res.Cost = tour, cost
			polished = true
		}
	}
	elapsed := time.Since(started)

	if err = tsp.ValidatePermutation(res.Tour, r.cm.N()); err != nil {
		r.finish(j.alg, started, err)
		return store.RunRecord{}, fmt.Errorf("%w: %s run %d: %v", ErrBrokenTour, j.alg, j.run, err)
	}

	rec := store.RunRecord{
		ID:         uuid.New(),
		Instance:   r.instance,
		Algorithm:  j.alg,
		Run:        j.run,
		Seed:       j.seed,
		Cities:     r.cm.N(),
		Cost:       res.Cost,
		Iterations: res.Iterations,
		Stagnated:  res.Stagnated,
		Polished:   polished,
		Started:    started.UTC(),
		Duration:   elapsed,
		Tour:       res.Tour,
	}
	if err = r.store.SaveRun(ctx, rec); err != nil {
		r.finish(j.alg, started, err)
		return store.RunRecord{}, fmt.Errorf("bench: record %s run %d: %w", j.alg, j.run, err)
	}
	r.finish(j.alg, started, nil)

	log.Info("run finished",
		zap.Float64("cost", res.Cost),
		zap.Int("iterations", res.Iterations),
		zap.Bool("stagnated", res.Stagnated),
		zap.Bool("polished", polished),
		zap.Duration("duration", elapsed),
	)
	return rec, nil
}

// finish reports the run outcome to the metrics collector.
func (r *Runner) finish(alg tsp.Algorithm, started time.Time, err error) {
	if r.metrics != nil {
		r.metrics.ObserveRun(alg, time.Since(started), err)
	}
}

// observer combines the metrics hook and debug-level progress logging.
// It returns nil when neither is active so the search skips reporting.
func (r *Runner) observer(alg tsp.Algorithm, log *zap.Logger) tsp.Observer {
	var hooks []tsp.Observer
	if r.metrics != nil {
		hooks = append(hooks, r.metrics.Observer(alg))
	}
	if log.Core().Enabled(zap.DebugLevel) {
		hooks = append(hooks, func(p tsp.Progress) {
			fields := []zap.Field{
				zap.Int("iteration", p.Iteration),
				zap.Float64("best", p.Best.Cost),
				zap.Float64("current", p.Current),
			}
			if p.Algorithm == tsp.Annealing {
				fields = append(fields, zap.Float64("temperature", p.Temperature))
			}
			log.Debug("progress", fields...)
		})
	}

	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	}
	return func(p tsp.Progress) {
		for _, h := range hooks {
			h(p)
		}
	}
}
