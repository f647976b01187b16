// Command tspmeta benchmarks the genetic, annealing and ant-colony TSP
// searches on one instance and prints per-algorithm statistics followed by
// each algorithm's best tour length.
//
// Usage:
//
//	tspmeta [-config run.yaml] [-n 200] [-seed 42] [-runs 5] [-algos ga,sa,aco]
//	        [-instance cities.txt] [-polish] [-db runs.db]
//	        [-metrics-addr :9090] [-log-level info] [-concurrency 4]
//
// Flags override the configuration file, which overrides the built-in defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/tspmeta/bench"
	"github.com/katalvlaran/tspmeta/config"
	"github.com/katalvlaran/tspmeta/instance"
	"github.com/katalvlaran/tspmeta/matrix"
	"github.com/katalvlaran/tspmeta/metrics"
	"github.com/katalvlaran/tspmeta/store"
	"github.com/katalvlaran/tspmeta/tsp"
)

type options struct {
	configPath  string
	cities      int
	seed        int64
	runs        int
	algos       string
	instance    string
	polish      bool
	db          string
	metricsAddr string
	logLevel    string
	concurrency int
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tspmeta:", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	var (
		o  options
		fs = flag.NewFlagSet("tspmeta", flag.ContinueOnError)
	)
	fs.StringVar(&o.configPath, "config", "", "YAML run configuration")
	fs.IntVar(&o.cities, "n", 0, "number of random cities (overrides instance.cities)")
	fs.Int64Var(&o.seed, "seed", 0, "master seed; 0 draws one from entropy")
	fs.IntVar(&o.runs, "runs", 0, "runs per algorithm (overrides runs)")
	fs.StringVar(&o.algos, "algos", "", "comma-separated algorithms: genetic,annealing,colony")
	fs.StringVar(&o.instance, "instance", "", "instance file (.txt matrix or .yaml)")
	fs.BoolVar(&o.polish, "polish", false, "apply 2-opt to every result")
	fs.StringVar(&o.db, "db", "", "SQLite file recording every run")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.IntVar(&o.concurrency, "concurrency", runtime.GOMAXPROCS(0), "searches running at once")
	if err = fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	log, err := newLogger(o.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig(o, set)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		// Resolve once so the generated instance and the searches share one seed.
		cfg.Seed = tsp.EntropySeed()
		log.Info("no seed configured, drew one from entropy", zap.Int64("seed", cfg.Seed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, dist, err := loadInstance(cfg, log)
	if err != nil {
		return err
	}

	runOpts := []bench.Option{
		bench.WithLogger(log),
		bench.WithConcurrency(o.concurrency),
		bench.WithInstanceName(name),
	}
	if o.db != "" {
		st, oerr := store.OpenSQLite(ctx, o.db)
		if oerr != nil {
			return oerr
		}
		defer func() { err = closeJoin(err, st, "run store") }()
		runOpts = append(runOpts, bench.WithStore(st))
	}
	if o.metricsAddr != "" {
		mc := metrics.New()
		srv := serveMetrics(o.metricsAddr, mc, log)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		runOpts = append(runOpts, bench.WithMetrics(mc))
	}

	runner, err := bench.New(cfg, dist, runOpts...)
	if err != nil {
		return err
	}
	rep, err := runner.Run(ctx)

	fmt.Print(rep.String())
	for _, s := range rep.Summaries {
		fmt.Printf("%s best tour length: %.2f\n", s.Algorithm, s.Best)
	}
	return err
}

// loadConfig layers defaults, the optional file and explicitly set flags.
func loadConfig(o options, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if set["n"] {
		cfg.Instance.Cities = o.cities
	}
	if set["seed"] {
		cfg.Seed = o.seed
	}
	if set["runs"] {
		cfg.Runs = o.runs
	}
	if set["instance"] {
		cfg.Instance.File = o.instance
	}
	if set["polish"] {
		cfg.Polish = o.polish
	}
	if set["algos"] {
		algs, err := parseAlgorithms(o.algos)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Algorithms = algs
	}

	return cfg, cfg.Validate()
}

func parseAlgorithms(s string) ([]tsp.Algorithm, error) {
	var out []tsp.Algorithm
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := tsp.ParseAlgorithm(part)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: -algos selects nothing", config.ErrConfig)
	}
	return out, nil
}

// loadInstance reads the configured file, or generates a random matrix from a
// stream of the master seed distinct from every search stream (cfg.Seed ≠ 0).
func loadInstance(cfg config.Config, log *zap.Logger) (string, matrix.Matrix, error) {
	if cfg.Instance.File != "" {
		in, err := instance.LoadFile(cfg.Instance.File)
		if err != nil {
			return "", nil, err
		}
		log.Info("instance loaded", zap.String("file", cfg.Instance.File), zap.Int("cities", in.Cities()))
		return in.Name, in.Dist, nil
	}

	seed := cfg.Seed
	instSeed := tsp.DeriveSeed(seed, 1<<63)
	m, err := instance.Random(cfg.Instance.Cities, cfg.Instance.Min, cfg.Instance.Max, rand.New(rand.NewSource(instSeed)))
	if err != nil {
		return "", nil, err
	}
	log.Info("instance generated",
		zap.Int("cities", cfg.Instance.Cities),
		zap.Float64("min", cfg.Instance.Min),
		zap.Float64("max", cfg.Instance.Max),
		zap.Int64("seed", seed),
	)
	return fmt.Sprintf("random-%d-%d", cfg.Instance.Cities, seed), m, nil
}

// closeJoin closes c and joins a close failure into err.
func closeJoin(err error, c io.Closer, what string) error {
	if cerr := c.Close(); cerr != nil {
		return errors.Join(err, fmt.Errorf("close %s: %w", what, cerr))
	}
	return err
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("-log-level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func serveMetrics(addr string, mc *metrics.Collector, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mc.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
