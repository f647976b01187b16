// Package tsp - functional options shared by every search constructor.
package tsp

import "math/rand"

// Option customises a search at construction time.
type Option func(*settings)

// settings is the resolved option set; zero value = entropy-seeded, silent.
type settings struct {
	rng         *rand.Rand
	seed        int64
	seeded      bool
	observer    Observer
	reportEvery int // 0 ⇒ per-algorithm default
}

// WithSeed makes the search deterministic. Seed 0 maps to defaultRNGSeed.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
		s.rng = nil
	}
}

// WithRand injects a caller-owned source. The search becomes its only user;
// *rand.Rand is not goroutine-safe, so never share one across searches.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		s.rng = r
		s.seeded = false
	}
}

// WithObserver installs a progress hook.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithReportEvery throttles the observer to every k-th iteration (k ≤ 0 ⇒ default).
// The initial state and the final iteration are always reported.
func WithReportEvery(k int) Option {
	return func(s *settings) { s.reportEvery = k }
}

// resolveSettings applies opts and materialises the RNG.
// Policy: the last of WithRand/WithSeed wins; neither ⇒ system entropy.
func resolveSettings(defaultEvery int, opts []Option) settings {
	var s settings
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	switch {
	case s.rng != nil:
	case s.seeded:
		s.rng = rngFromSeed(s.seed)
	default:
		s.rng = rngFromEntropy()
	}
	if s.reportEvery <= 0 {
		s.reportEvery = defaultEvery
	}

	return s
}

// report invokes the observer when iteration is on the reporting grid or final.
func (s *settings) report(p Progress, final bool) {
	if s.observer == nil {
		return
	}
	if p.Iteration == 0 || final || p.Iteration%s.reportEvery == 0 {
		s.observer(p)
	}
}
