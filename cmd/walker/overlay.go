package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/walker/ecs"
	"github.com/plus3/walker/ecs/debugui"
	debugui_ebiten "github.com/plus3/walker/ecs/debugui/ebiten"
	"github.com/plus3/walker/walker"
)

// overlay draws the ECS inspector panels over the game. The panels are
// entities of the simulation's own storage.
type overlay struct {
	backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	input   *ecs.Singleton[debugui.ImguiInputState]
}

func newOverlay(sim *walker.Simulation, title string, width, height int) *overlay {
	backend := debugui_ebiten.NewImguiBackend(title, width, height)

	storage := sim.Storage()
	// the tick panel edits VelocitySystem.Speed
	sim.Scheduler().Register(&debugui.ImguiSystem{}, ecs.After(sim.Velocity()))
	debugui.SpawnPanels(storage, sim.Scheduler())
	ecs.NewSingleton(storage, debugui.EditValidator{Validate: sim.ValidateComponent})
	storage.Spawn(debugui.ImguiItem{Render: tickPanel(sim)})

	return &overlay{
		backend: ecs.NewSingleton(storage, backend),
		input:   ecs.NewSingleton[debugui.ImguiInputState](storage),
	}
}

func (o *overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

func (o *overlay) BeginFrame() { o.backend.Get().BeginFrame() }
func (o *overlay) EndFrame() { o.backend.Get().EndFrame() }

func (o *overlay) Draw(screen *ebiten.Image) {
	o.backend.Get().Draw(screen)
}

func (o *overlay) Layout(width, height int) {
	o.backend.Get().Layout(width, height)
}

// tickPanel shows the last snapshot and lets the player speed be tuned.
func tickPanel(sim *walker.Simulation) func() {
	return func() {
		defer imgui.End()
		if !imgui.BeginV("Walker", nil, imgui.WindowFlagsNone) {
			return
		}

		snap := sim.Snapshot()
		imgui.Text(fmt.Sprintf("Tick: %d", snap.Tick))
		if snap.Commanded {
			imgui.Text("Command: " + snap.Command.String())
		}
		if entry, ok := snap.Find(sim.Player()); ok {
			imgui.Text(fmt.Sprintf("Player %s at %s, %s", entry.Entity, entry.Position, entry.State))
			r := entry.Sprite.Region
			imgui.Text(fmt.Sprintf("Frame: sheet %d (%d,%d) %dx%d", entry.Sprite.Sheet, r.X, r.Y, r.W, r.H))
		} else {
			imgui.Text("Player deleted")
		}

		speed := int32(sim.Velocity().Speed)
		if imgui.InputInt("Speed", &speed) && speed > 0 {
			sim.Velocity().Speed = int(speed)
		}
	}
}
