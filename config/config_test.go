package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmeta/config"
	"github.com/katalvlaran/tspmeta/tsp"
)

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, tsp.Algorithms, cfg.Algorithms)
	require.Equal(t, 200, cfg.Instance.Cities)
	require.Equal(t, tsp.DefaultConfigs(), cfg.Configs)

	// The default slice is a copy.
	cfg.Algorithms[0] = tsp.Colony
	require.Equal(t, tsp.Genetic, tsp.Algorithms[0])
}

func TestParse_EmptyIsDefault(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestParse_PartialOverrides(t *testing.T) {
	src := `
seed: 42
runs: 3
algorithms: [sa, aco]
polish: true
instance: {cities: 25}
genetic:
  crossover: pmx
annealing:
  iterations: 5000
colony:
  ants: 20
  evaporation_rate: 0.25
`
	cfg, err := config.Parse([]byte(src))
	require.NoError(t, err)

	require.Equal(t, int64(42), cfg.Seed)
	require.Equal(t, 3, cfg.Runs)
	require.Equal(t, []tsp.Algorithm{tsp.Annealing, tsp.Colony}, cfg.Algorithms)
	require.True(t, cfg.Polish)
	require.Equal(t, 25, cfg.Instance.Cities)
	require.Equal(t, 10.0, cfg.Instance.Min, "untouched keys keep defaults")

	require.Equal(t, tsp.PartiallyMappedCrossoverKind, cfg.Genetic.Crossover)
	require.Equal(t, tsp.DefaultPopulationSize, cfg.Genetic.PopulationSize)
	require.Equal(t, 5000, cfg.Annealing.Iterations)
	require.Equal(t, tsp.DefaultCoolingRate, cfg.Annealing.CoolingRate)
	require.Equal(t, 20, cfg.Colony.Ants)
	require.Equal(t, 0.25, cfg.Colony.EvaporationRate)
	require.Equal(t, tsp.DefaultQ, cfg.Colony.Q)
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", "seeds: 1\n", config.ErrConfig},
		{"unknown nested key", "colony: {antz: 3}\n", config.ErrConfig},
		{"unknown algorithm", "algorithms: [tabu]\n", config.ErrConfig},
		{"runs 0", "runs: 0\n", config.ErrConfig},
		{"no algorithms", "algorithms: []\n", config.ErrConfig},
		{"duplicate algorithm", "algorithms: [ga, genetic]\n", config.ErrConfig},
		{"negative report_every", "report_every: -1\n", config.ErrConfig},
		{"one city", "instance: {cities: 1}\n", config.ErrConfig},
		{"empty range", "instance: {min: 5, max: 5}\n", config.ErrConfig},
		{"bad genetic", "genetic: {population_size: 0}\n", tsp.ErrInvalidConfiguration},
		{"bad annealing", "annealing: {cooling_rate: 1.5}\n", tsp.ErrInvalidConfiguration},
		{"bad colony", "colony: {evaporation_rate: 2}\n", tsp.ErrInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.src))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestParse_FileSkipsRandomChecks: a file instance ignores the generator fields.
func TestParse_FileSkipsRandomChecks(t *testing.T) {
	cfg, err := config.Parse([]byte("instance: {file: cities.txt, cities: 0}\n"))
	require.NoError(t, err)
	require.Equal(t, "cities.txt", cfg.Instance.File)
}

func TestLoad_RoundTrip(t *testing.T) {
	want := config.Default()
	want.Seed = 7
	want.Runs = 2
	want.Algorithms = []tsp.Algorithm{tsp.Colony}
	want.Colony.Ants = 9

	data, err := want.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
