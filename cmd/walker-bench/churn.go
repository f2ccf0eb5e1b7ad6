package main

import (
	"github.com/plus3/walker/ecs"
	"github.com/plus3/walker/walker"
)

// Spawned marks the walkers the benchmark created, as opposed to the
// simulation's own player. Only these are churned.
type Spawned struct {
	Generation int
}

func registerBenchComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Spawned](registry)
}

// churnSystem deletes the first Count spawned walkers every Every ticks and
// queues the same number of fresh ones, all through frame commands.
type churnSystem struct {
	Walkers ecs.Query[struct {
		Entity  ecs.EntityId
		Spawned *Spawned `ecs:"read"`
	}]

	Every  uint64
	Count  int
	Bundle func(generation int) []any

	generation int
	Deleted    int
	Respawned  int
}

func (c *churnSystem) Execute(frame *ecs.UpdateFrame) {
	if c.Every == 0 || c.Count == 0 || frame.Tick%c.Every != 0 {
		return
	}
	c.generation++

	deleted := 0
	for row := range c.Walkers.Values() {
		if deleted == c.Count {
			break
		}
		frame.Commands.Delete(row.Entity)
		deleted++
	}
	for i := 0; i < deleted; i++ {
		frame.Commands.Spawn(c.Bundle(c.generation)...)
	}
	c.Deleted += deleted
	c.Respawned += deleted
}

// walkerBundle builds the components of a keyboard walker spread out on a
// grid around the origin.
func walkerBundle(anim walker.MovementAnimation, sheets []walker.SheetBounds, index, generation int) []any {
	origin := walker.Position{X: (index%100 - 50) * 40, Y: (index/100 - 50) * 40}
	facing := walker.Directions[index%len(walker.Directions)]
	bundle, err := walker.BundleFromAnimation(origin, facing, anim, sheets, true)
	if err != nil {
		panic(err)
	}
	return append(bundle, Spawned{Generation: generation})
}

// inputScript walks a square: each side is held for side ticks and
// released for one.
func inputScript(side int) *walker.ScriptedSource {
	var ticks [][]walker.InputEvent
	for _, k := range []walker.Key{walker.KeyArrowRight, walker.KeyArrowDown, walker.KeyArrowLeft, walker.KeyArrowUp} {
		ticks = append(ticks, []walker.InputEvent{walker.KeyDown(k)})
		for i := 1; i < side; i++ {
			ticks = append(ticks, nil)
		}
		ticks = append(ticks, []walker.InputEvent{walker.KeyUp(k)})
	}
	return &walker.ScriptedSource{Ticks: ticks, Loop: true}
}
