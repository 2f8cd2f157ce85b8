package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/lifegrid/model"
	"github.com/sheikhrachel/lifegrid/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	config, err := loadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "lifegrid: %v\n", err)
		return 2
	}

	logger := newLogger(config, stderr)
	logger.Info("starting",
		"rows", config.Rows, "cols", config.Cols,
		"interval", config.Interval(), "random", config.RandomStart)

	var (
		sim     = model.NewSimulation(config, model.WithLogger(logger))
		monitor = newRunMonitor(config)
		frames  = make(chan model.Snapshot, 1)
		stats   = utils.NewStats(time.Now())
	)
	if config.RandomStart {
		sim.Randomize()
	}
	// publish before the monitor so a stop it triggers is the last frame queued
	sim.OnUpdate(func(s model.Snapshot) { publish(frames, s) })
	sim.OnUpdate(func(s model.Snapshot) {
		if monitor.observe(s) {
			sim.Stop()
		}
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return renderFrames(ctx, frames, stdout, stats)
	})
	eg.Go(func() error {
		<-ctx.Done()
		sim.Stop()
		return nil
	})

	sim.Start()
	if err = eg.Wait(); err != nil && !errors.Is(err, errFinished) {
		logger.Error("run failed", "error", err)
		return 1
	}

	final := sim.Snapshot()
	fmt.Fprintf(stdout, "\nStopped: %s\n", monitor.stopReason())
	fmt.Fprintf(stdout, "Final stats: %d generations in %.1f seconds, %.1f avg population\n",
		final.Generation, stats.Runtime(time.Now()).Seconds(), stats.AveragePopulation)

	if config.Output != "" {
		if err = writePNG(config.Output, config.CellSize, final.Grid); err != nil {
			logger.Error("failed to write snapshot", "error", err)
			return 1
		}
		logger.Info("snapshot written", "path", config.Output)
	}
	return 0
}
