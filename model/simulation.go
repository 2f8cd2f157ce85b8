package model

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifegrid/utils"
)

// Snapshot is a consistent view of the simulation at one point in time
type Snapshot struct {
	Grid       *Grid
	Generation int
	Running    bool
}

// Option configures a Simulation
type Option func(*Simulation)

// WithStepper replaces the rule engine, mostly useful in tests.
func WithStepper(step Stepper) Option {
	return func(s *Simulation) { s.step = step }
}

// WithAfterFunc replaces time.AfterFunc as the way the next tick is scheduled.
func WithAfterFunc(afterFunc func(time.Duration, func())) Option {
	return func(s *Simulation) { s.afterFunc = afterFunc }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

/*
Simulation owns the current grid, the generation counter and the run flag.

While running, every tick applies the stepper once and re-arms a one-shot timer.
A tick re-reads the run flag when it fires, so Stop takes effect on the next tick
without cancelling the pending timer. Each Start opens a new run epoch and ticks
belonging to an older epoch are dropped.
*/
type Simulation struct {
	mu        sync.Mutex
	factory   *GridFactory
	step      Stepper
	interval  time.Duration
	afterFunc func(time.Duration, func())
	logger    *slog.Logger
	observers []func(Snapshot)

	grid       *Grid
	generation int
	running    bool
	epoch      uint64
}

// NewSimulation creates a stopped simulation at generation 0 with an all-dead grid
func NewSimulation(cfg utils.Config, opts ...Option) *Simulation {
	s := &Simulation{
		factory:  NewGridFactory(cfg),
		step:     Step,
		interval: cfg.Interval(),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.grid = s.factory.Filled(false)
	return s
}

// OnUpdate registers fn to receive a snapshot after every state change. It is
// called outside the simulation lock, possibly from the timer goroutine, and
// may call back into the simulation.
func (s *Simulation) OnUpdate(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns the current grid, generation and run state
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulation) snapshotLocked() Snapshot {
	return Snapshot{
		Grid:       s.grid,
		Generation: s.generation,
		Running:    s.running,
	}
}

func (s *Simulation) notify(snap Snapshot) {
	s.mu.Lock()
	observers := s.observers
	s.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

// Start switches to running and steps immediately. Starting a running
// simulation does nothing.
func (s *Simulation) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.epoch++
	epoch := s.epoch
	generation := s.generation
	s.mu.Unlock()

	s.logger.Info("simulation started", "generation", generation, "interval", s.interval)
	s.tick(epoch)
}

func (s *Simulation) tick(epoch uint64) {
	s.mu.Lock()
	if !s.running || s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.grid = s.step(s.grid)
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("generation advanced", "generation", snap.Generation)
	s.notify(snap)
	s.afterFunc(s.interval, func() { s.tick(epoch) })
}

// Stop switches to stopped. A pending tick observes the flag and does nothing.
func (s *Simulation) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("simulation stopped", "generation", snap.Generation)
	s.notify(snap)
}

// ToggleRunning starts a stopped simulation or stops a running one and
// reports whether it is now running.
func (s *Simulation) ToggleRunning() bool {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		s.Stop()
		return false
	}
	s.Start()
	return true
}

// Advance applies a single step regardless of the run state.
func (s *Simulation) Advance() {
	s.mu.Lock()
	s.grid = s.step(s.grid)
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear stops the simulation, kills every cell and resets the generation to 0.
func (s *Simulation) Clear() {
	s.mu.Lock()
	s.running = false
	s.epoch++
	s.grid = s.factory.Filled(false)
	s.generation = 0
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("simulation cleared")
	s.notify(snap)
}

// Randomize replaces the grid with a random one. The generation counter and
// run state are left alone.
func (s *Simulation) Randomize() {
	s.mu.Lock()
	s.grid = s.factory.Random()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("grid randomized", "population", snap.Grid.CountLivingCells())
	s.notify(snap)
}

// ToggleCell flips the cell at (i, k). Positions outside the grid are ignored.
func (s *Simulation) ToggleCell(i, k int) {
	s.mu.Lock()
	s.grid = s.grid.Toggle(i, k)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// SetGrid replaces the grid with g, which must match the configured shape.
func (s *Simulation) SetGrid(g *Grid) error {
	s.mu.Lock()
	if g == nil || g.rows != s.grid.rows || g.cols != s.grid.cols {
		s.mu.Unlock()
		return errors.Errorf("[SetGrid] grid shape does not match %dx%d", s.grid.rows, s.grid.cols)
	}
	s.grid = g
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}
