package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the configuration for the game
type Config struct {
	Rows              int     `json:"rows"`
	Cols              int     `json:"cols"`
	IntervalMs        int     `json:"interval"`
	RandomProbability float64 `json:"random_probability"` // a random cell is alive when its draw exceeds this
	CellSize          int     `json:"cell_size"`
	Seed              int64   `json:"seed"` // 0 seeds from the clock
	RandomStart       bool    `json:"random_start"`
	MaxGenerations    int     `json:"max_generations"`
	StagnationLimit   int     `json:"stagnation_limit"`
	Output            string  `json:"output"`
	Quiet             bool    `json:"quiet"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:              30,
		Cols:              50,
		IntervalMs:        100,
		RandomProbability: 0.7,
		CellSize:          20,
		RandomStart:       true,
		MaxGenerations:    0,
		StagnationLimit:   10,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Bind attaches the configuration to the provided FlagSet, using the current
// values as defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid height in cells")
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid width in cells")
	fs.IntVar(&c.IntervalMs, "interval", c.IntervalMs, "milliseconds between generations")
	fs.Float64Var(&c.RandomProbability, "random-probability", c.RandomProbability, "draw threshold a random cell must exceed to be alive")
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "pixels per cell in PNG output")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random boards (0 uses the clock)")
	fs.BoolVar(&c.RandomStart, "random", c.RandomStart, "start from a random board instead of an empty one")
	fs.IntVar(&c.MaxGenerations, "max-generations", c.MaxGenerations, "stop after this many generations (0 runs until interrupted)")
	fs.IntVar(&c.StagnationLimit, "stagnation-limit", c.StagnationLimit, "stop after this many repeating frames (0 disables)")
	fs.StringVar(&c.Output, "output", c.Output, "write the final board to this PNG file")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "disable log output")
}

// Validate reports the first misconfigured value. Dimensions are fixed for
// the life of a run, so this is meant to be called once at startup.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return errors.Errorf("[Validate] rows must be positive, got %d", c.Rows)
	case c.Cols <= 0:
		return errors.Errorf("[Validate] cols must be positive, got %d", c.Cols)
	case c.IntervalMs <= 0:
		return errors.Errorf("[Validate] interval must be positive, got %d", c.IntervalMs)
	case c.CellSize <= 0:
		return errors.Errorf("[Validate] cell_size must be positive, got %d", c.CellSize)
	case c.RandomProbability < 0 || c.RandomProbability >= 1:
		return errors.Errorf("[Validate] random_probability must be in [0,1), got %v", c.RandomProbability)
	case c.MaxGenerations < 0:
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	case c.StagnationLimit < 0:
		return errors.Errorf("[Validate] stagnation_limit must not be negative, got %d", c.StagnationLimit)
	}
	return nil
}

// Interval returns the delay between generations.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}
