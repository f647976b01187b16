// Package metrics exports search progress as Prometheus collectors.
//
// A Collector owns a dedicated registry (never the global default one) so
// several runners, and tests, can coexist in one process:
//
//	tspmeta_iterations_total{algorithm}            counter
//	tspmeta_best_cost{algorithm}                   gauge, best cost reported so far
//	tspmeta_runs_total{algorithm,status}           counter, status = ok | error
//	tspmeta_run_duration_seconds{algorithm}        histogram
//
// plus the Go runtime and process collectors.
package metrics

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/tspmeta/tsp"
)

// Run outcomes used as the status label.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collector groups the tspmeta collectors and their registry.
type Collector struct {
	Registry *prometheus.Registry

	Iterations  *prometheus.CounterVec
	BestCost    *prometheus.GaugeVec
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	mu   sync.Mutex
	best map[tsp.Algorithm]float64
}

// New builds and registers every collector on a fresh registry.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		Iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tspmeta_iterations_total", Help: "Search iterations (generations, steps or colony iterations) observed."},
			[]string{"algorithm"},
		),
		BestCost: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "tspmeta_best_cost", Help: "Lowest tour length observed per algorithm."},
			[]string{"algorithm"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tspmeta_runs_total", Help: "Completed searches by algorithm and status."},
			[]string{"algorithm", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "tspmeta_run_duration_seconds", Help: "Wall-clock duration of one search.", Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)},
			[]string{"algorithm"},
		),
		best: make(map[tsp.Algorithm]float64),
	}
	c.Registry.MustRegister(c.Iterations, c.BestCost, c.Runs, c.RunDuration)
	c.Registry.MustRegister(collectors.NewGoCollector())
	c.Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return c
}

// Observer returns a tsp.Observer feeding the iteration counter and the
// best-cost gauge for alg. Iterations are counted as the distance between
// consecutive reports, so throttled observers still count every iteration.
// Each returned observer must stay on one search; the gauge is shared.
func (c *Collector) Observer(alg tsp.Algorithm) tsp.Observer {
	var (
		label = alg.String()
		iters = c.Iterations.WithLabelValues(label)
		last  int
	)
	return func(p tsp.Progress) {
		if p.Iteration > last {
			iters.Add(float64(p.Iteration - last))
			last = p.Iteration
		}
		c.ObserveBest(alg, p.Best.Cost)
	}
}

// ObserveBest lowers the best-cost gauge of alg when cost improves on it.
func (c *Collector) ObserveBest(alg tsp.Algorithm, cost float64) {
	if math.IsNaN(cost) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.best[alg]
	if ok && cost >= prev {
		return
	}
	c.best[alg] = cost
	c.BestCost.WithLabelValues(alg.String()).Set(cost)
}

// ObserveRun records one finished search.
func (c *Collector) ObserveRun(alg tsp.Algorithm, d time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	c.Runs.WithLabelValues(alg.String(), status).Inc()
	c.RunDuration.WithLabelValues(alg.String()).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
