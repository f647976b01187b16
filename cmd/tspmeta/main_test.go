package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/katalvlaran/tspmeta/config"
	"github.com/katalvlaran/tspmeta/store"
	"github.com/katalvlaran/tspmeta/tsp"
)

const tinyConfig = `
seed: 5
runs: 2
instance: {cities: 9}
genetic:   {population_size: 12, generations: 10, tournament_size: 3}
annealing: {iterations: 300}
colony:    {ants: 4, iterations: 3}
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyConfig), 0o600))
	return path
}

func TestParseAlgorithms(t *testing.T) {
	got, err := parseAlgorithms("sa, aco,,genetic")
	require.NoError(t, err)
	require.Equal(t, []tsp.Algorithm{tsp.Annealing, tsp.Colony, tsp.Genetic}, got)

	_, err = parseAlgorithms(" , ")
	require.ErrorIs(t, err, config.ErrConfig)
	_, err = parseAlgorithms("ga,tabu")
	require.ErrorIs(t, err, tsp.ErrInvalidConfiguration)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	o := options{configPath: writeConfig(t), seed: 11, runs: 1, algos: "colony", cities: 0}

	// Unset flags leave the file values alone.
	cfg, err := loadConfig(o, map[string]bool{})
	require.NoError(t, err)
	require.Equal(t, int64(5), cfg.Seed)
	require.Equal(t, 2, cfg.Runs)
	require.Equal(t, 9, cfg.Instance.Cities)

	cfg, err = loadConfig(o, map[string]bool{"seed": true, "runs": true, "algos": true})
	require.NoError(t, err)
	require.Equal(t, int64(11), cfg.Seed)
	require.Equal(t, 1, cfg.Runs)
	require.Equal(t, []tsp.Algorithm{tsp.Colony}, cfg.Algorithms)

	// An explicit -n 0 is validated, not ignored.
	_, err = loadConfig(o, map[string]bool{"n": true})
	require.ErrorIs(t, err, config.ErrConfig)
}

func TestLoadInstance_SeededRandom(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 3
	cfg.Instance.Cities = 7

	name, a, err := loadInstance(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "random-7-3", name)
	_, b, err := loadInstance(cfg, zap.NewNop())
	require.NoError(t, err)

	ca, err := tsp.NewCostModel(a)
	require.NoError(t, err)
	cb, err := tsp.NewCostModel(b)
	require.NoError(t, err)
	require.True(t, ca.Matrix().Equal(cb.Matrix(), 0))
}

func TestRun_EndToEnd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	err := run([]string{"-config", writeConfig(t), "-db", db, "-polish", "-log-level", "warn", "-concurrency", "2"})
	require.NoError(t, err)

	st, err := store.OpenSQLite(context.Background(), db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 6)
	for _, r := range runs {
		require.Equal(t, "random-9-5", r.Instance)
		require.NoError(t, tsp.ValidatePermutation(r.Tour, 9))
	}
}

func TestRun_BadFlags(t *testing.T) {
	require.Error(t, run([]string{"-log-level", "loud"}))
	require.Error(t, run([]string{"-nope"}))
	require.NoError(t, run([]string{"-h"}))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseJoin(t *testing.T) {
	errRun := errors.New("run failed")
	errClose := errors.New("checkpoint failed")
	ok := closerFunc(func() error { return nil })
	bad := closerFunc(func() error { return errClose })

	require.NoError(t, closeJoin(nil, ok, "store"))
	require.Equal(t, errRun, closeJoin(errRun, ok, "store"))

	err := closeJoin(nil, bad, "store")
	require.ErrorIs(t, err, errClose)
	require.Contains(t, err.Error(), "close store")

	err = closeJoin(errRun, bad, "store")
	require.ErrorIs(t, err, errRun)
	require.ErrorIs(t, err, errClose)
}
