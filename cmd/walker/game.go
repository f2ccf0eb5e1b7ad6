package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/walker/walker"
)

// game adapts a Simulation to ebiten's loop. Update runs one tick, so the
// tick rate is ebiten's TPS.
type game struct {
	sim      *walker.Simulation
	input    *keyboardSource
	renderer *spriteRenderer
	overlay  *overlay
	err      error
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.overlay != nil {
		g.input.Mute(g.overlay.WantsKeyboard())
	}
	events := g.input.Poll()
	if walker.WantsQuit(events) {
		return ebiten.Termination
	}

	if g.overlay != nil {
		g.overlay.BeginFrame()
		defer g.overlay.EndFrame()
	}
	g.sim.Tick(events)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.target = screen
	snap := g.sim.Snapshot()
	if err := g.renderer.Render(snap); err != nil && g.err == nil {
		g.err = fmt.Errorf("render tick %d: %w", snap.Tick, err)
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.input.Resize(outsideWidth, outsideHeight)
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
