// Package debugui renders Dear ImGui inspection panels for an ecs world.
// Panels are entities carrying an ImguiItem; ImguiSystem defers their
// render functions so they run after the tick's structural changes, when
// no component borrows are held.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/walker/ecs"
)

// ImguiItem is a component holding a render function called once per tick
// between the backend's BeginFrame and EndFrame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState is a singleton mirroring whether ImGui wants the mouse or
// keyboard this frame. Input sources should drop events ImGui consumes.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem `ecs:"read"` }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the component types the panels use.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}
