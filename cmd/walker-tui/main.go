// Command walker-tui runs the walker simulation in a terminal. Arrow keys
// walk, Space stops, Escape or q quits.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/walker/walker"
)

func main() {
	cfg := walker.DefaultConfig()
	flag.IntVar(&cfg.Speed, "speed", cfg.Speed, "Player speed in units per tick.")
	flag.IntVar(&cfg.TickRate, "tps", cfg.TickRate, "Simulation ticks per second.")
	parallel := flag.Bool("parallel", false, "Run physics and animation concurrently.")
	debug := flag.Bool("debug", false, "Write a trace to logs/walker-tui.log.")
	flag.Parse()

	logger, closeLog, err := setupLogging(*debug, "logs/walker-tui.log")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	sim, err := walker.New(cfg, []walker.SheetBounds{walker.ReferenceSheet}, walker.Options{Logger: logger, Parallel: *parallel})
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	clock := walker.NewTickerClock(cfg.TickInterval())
	defer clock.Stop()

	if err := runTerminal(ctx, screen, sim, clock); err != nil {
		log.Fatalf("Simulation stopped: %v", err)
	}
	logger.Printf("stopped after tick %d", sim.Scheduler().Ticks())
}

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// runTerminal runs the simulation on an initialised screen and finalises the
// screen on return, including when a tick panics.
func runTerminal(ctx context.Context, screen tcell.Screen, sim *walker.Simulation, clock walker.Clock) error {
	defer screen.Fini()
	return sim.Run(ctx, newTerminalSource(screen), &glyphRenderer{screen: screen}, clock)
}

// setupLogging returns a logger writing to path when enabled, or one that
// discards everything. The terminal owns stdout, so nothing is logged there.
func setupLogging(enabled bool, path string) (*log.Logger, func(), error) {
	if !enabled {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds), func() { f.Close() }, nil
}
