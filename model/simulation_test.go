package model

import (
	"testing"
	"time"

	"github.com/sheikhrachel/lifegrid/utils"
)

// manualTimer collects scheduled ticks so tests can fire them by hand.
type manualTimer struct {
	pending []func()
	delays  []time.Duration
}

func (m *manualTimer) afterFunc(d time.Duration, f func()) {
	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
}

// fire runs every tick scheduled so far and returns how many there were.
func (m *manualTimer) fire() int {
	due := m.pending
	m.pending = nil
	for _, f := range due {
		f()
	}
	return len(due)
}

func newTestSimulation(t *testing.T) (*Simulation, *manualTimer) {
	t.Helper()
	cfg := utils.DefaultConfig()
	cfg.Rows, cfg.Cols = 5, 5
	cfg.IntervalMs = 25
	cfg.Seed = 7
	timer := &manualTimer{}
	return NewSimulation(cfg, WithAfterFunc(timer.afterFunc)), timer
}

func blinker(t *testing.T) *Grid {
	return mustGrid(t, [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
	})
}

func TestSimulationInitialState(t *testing.T) {
	sim, _ := newTestSimulation(t)
	snap := sim.Snapshot()
	if snap.Running || snap.Generation != 0 || snap.Grid.CountLivingCells() != 0 {
		t.Fatalf("unexpected initial snapshot: gen=%d running=%v alive=%d",
			snap.Generation, snap.Running, snap.Grid.CountLivingCells())
	}
	if snap.Grid.Rows() != 5 || snap.Grid.Cols() != 5 {
		t.Fatal("initial grid has wrong shape")
	}
}

func TestSimulationStartStepsAndReschedules(t *testing.T) {
	sim, timer := newTestSimulation(t)
	if err := sim.SetGrid(blinker(t)); err != nil {
		t.Fatal(err)
	}

	sim.Start()
	snap := sim.Snapshot()
	if !snap.Running || snap.Generation != 1 {
		t.Fatalf("start should step immediately: gen=%d running=%v", snap.Generation, snap.Running)
	}
	if len(timer.pending) != 1 || timer.delays[0] != 25*time.Millisecond {
		t.Fatalf("expected one tick scheduled after the interval, got %v", timer.delays)
	}

	timer.fire()
	snap = sim.Snapshot()
	if snap.Generation != 2 || !snap.Grid.Equal(blinker(t)) {
		t.Fatalf("gen=%d grid:\n%s", snap.Generation, snap.Grid)
	}

	// starting again while running is a no-op
	sim.Start()
	if got := sim.Snapshot().Generation; got != 2 {
		t.Fatalf("second Start stepped: gen=%d", got)
	}
}

func TestSimulationStopTakesEffectOnNextTick(t *testing.T) {
	sim, timer := newTestSimulation(t)
	sim.Start()
	sim.Stop()

	if n := timer.fire(); n != 1 {
		t.Fatalf("expected the in-flight tick to fire, got %d", n)
	}
	snap := sim.Snapshot()
	if snap.Running || snap.Generation != 1 {
		t.Fatalf("stopped simulation advanced: gen=%d running=%v", snap.Generation, snap.Running)
	}
	if len(timer.pending) != 0 {
		t.Fatal("stopped simulation rescheduled itself")
	}
}

func TestSimulationRestartDropsStaleTick(t *testing.T) {
	sim, timer := newTestSimulation(t)
	sim.Start()
	sim.Stop()
	sim.Start()

	// one tick from the first run, one from the second
	timer.fire()
	if got := sim.Snapshot().Generation; got != 3 {
		t.Fatalf("generation = %d, want 3 (two starts plus one live tick)", got)
	}
	if len(timer.pending) != 1 {
		t.Fatalf("expected a single live loop, %d ticks pending", len(timer.pending))
	}
}

func TestSimulationToggleRunning(t *testing.T) {
	sim, _ := newTestSimulation(t)
	if !sim.ToggleRunning() || !sim.Snapshot().Running {
		t.Fatal("toggle should start a stopped simulation")
	}
	if sim.ToggleRunning() || sim.Snapshot().Running {
		t.Fatal("toggle should stop a running simulation")
	}
}

func TestSimulationToggleCell(t *testing.T) {
	sim, _ := newTestSimulation(t)
	sim.Start()
	before := sim.Snapshot()

	sim.ToggleCell(2, 3)
	after := sim.Snapshot()

	if after.Generation != before.Generation || after.Running != before.Running {
		t.Fatal("toggle changed generation or run state")
	}
	diff := 0
	for i := range after.Grid.Rows() {
		for k := range after.Grid.Cols() {
			if after.Grid.Alive(i, k) != before.Grid.Alive(i, k) {
				diff++
			}
		}
	}
	if diff != 1 || after.Grid.Alive(2, 3) == before.Grid.Alive(2, 3) {
		t.Fatalf("expected exactly (2,3) to flip, %d cells differ", diff)
	}
}

func TestSimulationClear(t *testing.T) {
	sim, timer := newTestSimulation(t)
	sim.Randomize()
	sim.Start()
	timer.fire()

	sim.Clear()
	snap := sim.Snapshot()
	if snap.Running || snap.Generation != 0 || snap.Grid.CountLivingCells() != 0 {
		t.Fatalf("clear left gen=%d running=%v alive=%d",
			snap.Generation, snap.Running, snap.Grid.CountLivingCells())
	}

	timer.fire()
	if got := sim.Snapshot().Generation; got != 0 {
		t.Fatalf("tick after clear advanced to %d", got)
	}
}

func TestSimulationRandomizeKeepsGeneration(t *testing.T) {
	sim, _ := newTestSimulation(t)
	sim.Advance()
	sim.Advance()
	sim.Randomize()
	snap := sim.Snapshot()
	if snap.Generation != 2 || snap.Running {
		t.Fatalf("randomize changed gen=%d running=%v", snap.Generation, snap.Running)
	}
}

func TestSimulationSetGridRejectsWrongShape(t *testing.T) {
	sim, _ := newTestSimulation(t)
	if err := sim.SetGrid(NewGrid(4, 5)); err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if err := sim.SetGrid(nil); err == nil {
		t.Fatal("expected error for nil grid")
	}
}

func TestSimulationObserversAndStepper(t *testing.T) {
	calls := 0
	stepper := func(g *Grid) *Grid {
		calls++
		return g.Toggle(0, 0)
	}
	cfg := utils.DefaultConfig()
	cfg.Rows, cfg.Cols = 2, 2
	timer := &manualTimer{}
	sim := NewSimulation(cfg, WithStepper(stepper), WithAfterFunc(timer.afterFunc))

	var seen []Snapshot
	sim.OnUpdate(func(s Snapshot) { seen = append(seen, s) })

	sim.Start()
	timer.fire()
	sim.Stop()

	if calls != 2 {
		t.Fatalf("stepper called %d times, want 2", calls)
	}
	if len(seen) != 3 {
		t.Fatalf("observer saw %d updates, want 3", len(seen))
	}
	if seen[0].Generation != 1 || seen[1].Generation != 2 || seen[2].Running {
		t.Fatalf("unexpected update sequence: %+v", seen)
	}
	if seen[0].Grid.Equal(seen[1].Grid) {
		t.Fatal("observer snapshots share state")
	}
}

func TestSimulationRealTimer(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Rows, cfg.Cols = 3, 3
	cfg.IntervalMs = 1
	sim := NewSimulation(cfg)

	reached := make(chan struct{})
	sim.OnUpdate(func(s Snapshot) {
		if s.Running && s.Generation == 5 {
			close(reached)
		}
	})
	sim.Start()
	defer sim.Stop()

	select {
	case <-reached:
	case <-time.After(5 * time.Second):
		t.Fatal("simulation did not reach generation 5")
	}
}
