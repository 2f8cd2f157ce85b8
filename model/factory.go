package model

import (
	"math/rand/v2"
	"time"

	"github.com/sheikhrachel/lifegrid/utils"
)

// GridFactory produces grids of the configured shape. It is not safe for
// concurrent use; Simulation serializes access to its factory.
type GridFactory struct {
	rows      int
	cols      int
	threshold float64
	rng       *rand.Rand
}

// NewGridFactory creates a factory for cfg. A zero cfg.Seed seeds the random
// source from the clock.
func NewGridFactory(cfg utils.Config) *GridFactory {
	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &GridFactory{
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		threshold: cfg.RandomProbability,
		rng:       rand.New(rand.NewPCG(seed, 0)),
	}
}

// Filled returns a grid with every cell set to the given state
func (f *GridFactory) Filled(alive bool) *Grid {
	return NewFilledGrid(f.rows, f.cols, alive)
}

// Random returns a grid where each cell is alive when an independent uniform
// draw in [0,1) exceeds the configured random probability.
func (f *GridFactory) Random() *Grid {
	g := NewGrid(f.rows, f.cols)
	for i := range g.rows {
		for k := range g.cols {
			g.cells[i][k] = f.rng.Float64() > f.threshold
		}
	}
	return g
}
