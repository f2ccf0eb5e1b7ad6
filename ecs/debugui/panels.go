package debugui

import "github.com/plus3/walker/ecs"

// SpawnPanels adds the entity browser, component inspector and performance
// panels to storage. The ImguiItem type must be registered.
func SpawnPanels(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	ecs.NewSingleton[ImguiInputState](storage)

	browser := NewEntityBrowser(storage, 50)
	inspector := NewComponentInspector(storage)
	perf := NewPerformanceStats(storage, scheduler, 120)

	storage.Spawn(ImguiItem{Render: browser.Render})
	storage.Spawn(ImguiItem{Render: inspector.Render})
	storage.Spawn(ImguiItem{Render: perf.Render})
}
