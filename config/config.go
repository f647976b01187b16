// Package config is the YAML run configuration of the tspmeta runner.
//
// A document only needs the keys it changes; everything else keeps the value
// from Default(). Unknown keys are rejected so typos fail loudly:
//
//	seed: 42            # 0 => fresh entropy, logged for replay
//	runs: 5
//	algorithms: [genetic, annealing, colony]
//	polish: false
//	instance: {cities: 200, min: 10, max: 1000, file: ""}
//	genetic:   {population_size: 500, generations: 1000, crossover: order}
//	annealing: {initial_temp: 10000, cooling_rate: 0.9999, iterations: 300000}
//	colony:    {ants: 100, iterations: 50, evaporation_rate: 0.5, q: 500}
//	report_every: 0     # 0 => per-algorithm default
//
// Validation of the search parameters is delegated to the tsp package, so a bad
// file surfaces tsp.ErrInvalidConfiguration exactly like a bad literal would.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tspmeta/instance"
	"github.com/katalvlaran/tspmeta/tsp"
)

// ErrConfig wraps every decoding and runner-level validation failure.
var ErrConfig = errors.New("config: invalid")

// Instance selects the distance matrix: File wins, otherwise a random
// Cities×Cities matrix with distances in [Min, Max) is generated from Seed.
type Instance struct {
	Cities int     `yaml:"cities"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	File   string  `yaml:"file"`
}

// Config is the complete runner configuration.
type Config struct {
	Seed        int64           `yaml:"seed"`
	Runs        int             `yaml:"runs"`
	Algorithms  []tsp.Algorithm `yaml:"algorithms"`
	Polish      bool            `yaml:"polish"`
	ReportEvery int             `yaml:"report_every"`
	Instance    Instance        `yaml:"instance"`

	tsp.Configs `yaml:",inline"`
}

// Default mirrors the classic console run: 200 random cities in [10, 1000),
// every algorithm once with its documented defaults, fresh entropy.
func Default() Config {
	return Config{
		Seed:       0,
		Runs:       1,
		Algorithms: append([]tsp.Algorithm(nil), tsp.Algorithms...),
		Instance: Instance{
			Cities: instance.DefaultCities,
			Min:    instance.DefaultMinDistance,
			Max:    instance.DefaultMaxDistance,
		},
		Configs: tsp.DefaultConfigs(),
	}
}

// Load reads and validates the YAML file at path on top of Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data on top of Default() and validates the result.
// An empty document yields Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks runner fields and delegates the search parameters to tsp.
func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs=%d must be >= 1", ErrConfig, c.Runs)
	}
	if len(c.Algorithms) == 0 {
		return fmt.Errorf("%w: no algorithms selected", ErrConfig)
	}
	seen := make(map[tsp.Algorithm]bool, len(c.Algorithms))
	for _, a := range c.Algorithms {
		if seen[a] {
			return fmt.Errorf("%w: algorithm %s listed twice", ErrConfig, a)
		}
		seen[a] = true
	}
	if c.ReportEvery < 0 {
		return fmt.Errorf("%w: report_every=%d must be >= 0", ErrConfig, c.ReportEvery)
	}
	if c.Instance.File == "" {
		if c.Instance.Cities < 2 {
			return fmt.Errorf("%w: instance.cities=%d must be >= 2", ErrConfig, c.Instance.Cities)
		}
		if c.Instance.Min < 0 || c.Instance.Max <= c.Instance.Min {
			return fmt.Errorf("%w: instance range [%g, %g) is empty", ErrConfig, c.Instance.Min, c.Instance.Max)
		}
	}

	return c.Configs.Validate()
}

// Marshal renders c as YAML (used to record the effective configuration).
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
