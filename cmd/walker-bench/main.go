// Command walker-bench drives many keyboard walkers through a scripted
// input loop as fast as possible and prints a Markdown report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/walker/walker"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	walkers := flag.Int("walkers", 10000, "The number of walkers to spawn besides the player.")
	parallel := flag.Bool("parallel", false, "Run physics and animation concurrently.")
	churnEvery := flag.Uint64("churn-every", 0, "Delete and respawn walkers every N ticks; 0 disables churn.")
	churnCount := flag.Int("churn-count", 100, "Walkers replaced per churn.")
	compactEvery := flag.Int64("compact-every", 500, "Compact storage every N ticks while churning.")
	profileMode := flag.String("profile", "", "Write a profile of the run: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q", *profileMode)
	}

	log.Println("Starting walker benchmark...")

	cfg := walker.DefaultConfig()
	sheets := []walker.SheetBounds{walker.ReferenceSheet}
	sim, err := walker.New(cfg, sheets, walker.Options{
		Parallel: *parallel,
		Register: registerBenchComponents,
	})
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	anim, err := walker.NewMovementAnimation(cfg.PlayerSheet, cfg.FirstFrame, cfg.FramesPerDirection, sheets)
	if err != nil {
		log.Fatalf("Failed to build animation: %v", err)
	}

	log.Printf("Spawning %d walkers...\n", *walkers)
	for i := 0; i < *walkers; i++ {
		if _, err := sim.Spawn(walkerBundle(anim, sheets, i, 0)...); err != nil {
			log.Fatalf("Failed to spawn walker %d: %v", i, err)
		}
	}

	churn := &churnSystem{
		Every: *churnEvery,
		Count: *churnCount,
	}
	spawned := *walkers
	churn.Bundle = func(generation int) []any {
		spawned++
		return walkerBundle(anim, sheets, spawned, generation)
	}
	sim.Scheduler().Register(churn)
	log.Printf("Stages: %v\n", sim.Scheduler().Stages())

	report := &Report{
		Duration:       *duration,
		Walkers:        *walkers,
		Parallel:       *parallel,
		ChurnEvery:     *churnEvery,
		ChurnCount:     *churnCount,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	source := inputScript(10)
	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			events := source.Poll()

			tickStart := time.Now()
			sim.Tick(events)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(tickStart))
			report.TotalTicks++

			if *churnEvery > 0 && *compactEvery > 0 && report.TotalTicks%*compactEvery == 0 {
				sim.Storage().Compact()
				report.Compactions++
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Deleted = churn.Deleted
	report.Respawned = churn.Respawned
	report.Scheduler = sim.Scheduler().GetStats()
	report.Storage = sim.Storage().CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Benchmark finished.")

	fmt.Println("\n\n--- Walker Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
