// Command walker opens a window with a keyboard-driven character walking on
// a spritesheet. Arrow keys walk, Escape quits.
package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/walker/ecs/debugui"
	"github.com/plus3/walker/walker"
)

func main() {
	cfg := walker.DefaultConfig()
	sheetPath := flag.String("sheet", "assets/bardo.png", "Path of the player spritesheet.")
	flag.IntVar(&cfg.Speed, "speed", cfg.Speed, "Player speed in units per tick.")
	flag.IntVar(&cfg.TickRate, "tps", cfg.TickRate, "Simulation ticks per second.")
	flag.IntVar(&cfg.DisplayScale, "scale", cfg.DisplayScale, "Sprite scale on screen.")
	flag.IntVar(&cfg.FramesPerDirection, "frames", cfg.FramesPerDirection, "Animation frames per direction.")
	flag.IntVar(&cfg.WindowWidth, "width", cfg.WindowWidth, "Window width.")
	flag.IntVar(&cfg.WindowHeight, "height", cfg.WindowHeight, "Window height.")
	parallel := flag.Bool("parallel", false, "Run physics and animation concurrently.")
	debug := flag.Bool("debug", false, "Write a trace to logs/walker.log.")
	debugUI := flag.Bool("debugui", false, "Show the ECS inspector overlay.")
	flag.Parse()

	logger, closeLog, err := setupLogging(*debug, "logs/walker.log")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	sheet, err := loadSheet(*sheetPath, cfg)
	if err != nil {
		log.Fatalf("Failed to load spritesheet: %v", err)
	}

	opts := walker.Options{Logger: logger, Parallel: *parallel}
	if *debugUI {
		// inspector edits write components outside the scheduler's borrows
		opts.Register = debugui.RegisterComponents
		opts.Parallel = false
	}
	sim, err := walker.New(cfg, []walker.SheetBounds{sheet.Bounds()}, opts)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	g := &game{
		sim:      sim,
		input:    &keyboardSource{},
		renderer: &spriteRenderer{cfg: cfg, sheets: []*ebiten.Image{sheet.Image}},
	}
	if *debugUI {
		g.overlay = newOverlay(sim, "walker", cfg.WindowWidth, cfg.WindowHeight)
	} else {
		ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
		ebiten.SetWindowTitle("walker")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("Game stopped: %v", err)
	}
	logger.Printf("stopped after tick %d, %d entities", sim.Scheduler().Ticks(), sim.Storage().CollectStats().TotalEntityCount)
}

// setupLogging returns a logger writing to path when enabled, or one that
// discards everything.
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
