package bench

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/tspmeta/metrics"
	"github.com/katalvlaran/tspmeta/store"
)

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger (default: zap.NewNop()).
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics feeds progress and run outcomes into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithStore records every finished run in s (default: an in-memory store).
func WithStore(s store.Store) Option {
	return func(r *Runner) {
		if s != nil {
			r.store = s
		}
	}
}

// WithConcurrency bounds the number of searches running at once (n ≤ 0 ⇒ 1).
// Each search stays single-threaded; only whole runs execute in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// WithInstanceName labels records and the report (default "random").
func WithInstanceName(name string) Option {
	return func(r *Runner) {
		if name != "" {
			r.instance = name
		}
	}
}
