package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sheikhrachel/lifegrid/model"
	"github.com/sheikhrachel/lifegrid/utils"
)

const (
	reasonMaxGenerations = "maximum generations reached"
	reasonStagnation     = "stagnation detected"
	reasonInterrupted    = "interrupted"
)

// errFinished ends the frame loop once the simulation stopped on its own
var errFinished = errors.New("simulation finished")

func newFlagSet(config *utils.Config, configPath *string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("lifegrid", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(configPath, "config", *configPath, "JSON configuration file")
	config.Bind(fs)
	return fs
}

// loadConfig builds the run configuration: defaults, then the optional JSON
// file, then command-line flags.
func loadConfig(args []string, output io.Writer) (utils.Config, error) {
	var configPath string
	config := utils.DefaultConfig()
	if err := newFlagSet(&config, &configPath, output).Parse(args); err != nil {
		return config, err
	}
	if configPath == "" {
		return config, config.Validate()
	}

	fileConfig, err := utils.LoadConfig(configPath)
	if err != nil {
		return config, err
	}
	// parse again so flags given on the command line win over the file
	if err = newFlagSet(&fileConfig, &configPath, output).Parse(args); err != nil {
		return fileConfig, err
	}
	return fileConfig, fileConfig.Validate()
}

func newLogger(config utils.Config, w io.Writer) *slog.Logger {
	if config.Quiet {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// publish hands s to the frame loop, replacing any frame it has not drawn yet
func publish(frames chan model.Snapshot, s model.Snapshot) {
	for {
		select {
		case frames <- s:
			return
		default:
		}
		select {
		case <-frames:
		default:
		}
	}
}

// runMonitor watches every generation and stops the simulation when the
// generation limit is hit or the board settles into a still life or a
// period-2 oscillation.
type runMonitor struct {
	mu              sync.Mutex
	maxGenerations  int
	stagnationLimit int
	history         []string // hashes of the two previous boards
	stagnantCount   int
	reason          string
}

func newRunMonitor(config utils.Config) *runMonitor {
	return &runMonitor{
		maxGenerations:  config.MaxGenerations,
		stagnationLimit: config.StagnationLimit,
	}
}

// observe returns true when the run should stop.
func (m *runMonitor) observe(s model.Snapshot) bool {
	if !s.Running {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := s.Grid.Hash()
	repeated := false
	for _, h := range m.history {
		if h == hash {
			repeated = true
		}
	}
	if repeated {
		m.stagnantCount++
	} else {
		m.stagnantCount = 0
	}
	m.history = append(m.history, hash)
	if len(m.history) > 2 {
		m.history = m.history[1:]
	}

	switch {
	case m.maxGenerations > 0 && s.Generation >= m.maxGenerations:
		m.reason = reasonMaxGenerations
	case m.stagnationLimit > 0 && m.stagnantCount >= m.stagnationLimit:
		m.reason = reasonStagnation
	default:
		return false
	}
	return true
}

func (m *runMonitor) stopReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reason == "" {
		return reasonInterrupted
	}
	return m.reason
}

// statusLine formats the per-frame summary shown above the board
func statusLine(p *message.Printer, s model.Snapshot, stats *utils.Stats, now time.Time) string {
	living := s.Grid.CountLivingCells()
	density := float64(living) / float64(s.Grid.Rows()*s.Grid.Cols()) * 100
	state := "Running"
	if !s.Running {
		state = "Stopped"
	}
	return p.Sprintf("Gen: %d | Living: %d | Density: %.1f%% | %s\nPerformance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		s.Generation, living, density, state,
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime(now).Seconds())
}

// renderFrames draws each published snapshot until ctx is done or the
// simulation reports it has stopped.
func renderFrames(ctx context.Context, frames <-chan model.Snapshot, out io.Writer, stats *utils.Stats) error {
	var (
		renderer = model.NewTerminalRenderer(out)
		printer  = message.NewPrinter(language.English)
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-frames:
			now := time.Now()
			stats.Observe(snap.Generation, snap.Grid.CountLivingCells(), now)

			if err := renderer.Clear(); err != nil {
				return err
			}
			if _, err := io.WriteString(out, statusLine(printer, snap, stats, now)); err != nil {
				return errors.Wrap(err, "[renderFrames] failed to write status")
			}
			if err := renderer.Display(snap.Grid); err != nil {
				return err
			}
			if !snap.Running && snap.Generation > 0 {
				return errFinished
			}
		}
	}
}

// writePNG saves g to path
func writePNG(path string, cellSize int, g *model.Grid) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[writePNG] failed to create file: %+v", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "[writePNG] failed to close file: %+v", path)
		}
	}()
	return model.NewPNGRenderer(cellSize).Encode(f, g)
}
