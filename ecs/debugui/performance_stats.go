package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/walker/ecs"
)

// FrameHistory is a fixed-size ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	next    int
	filled  int
}

func NewFrameHistory(size int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, size)}
}

func (h *FrameHistory) Push(d time.Duration) {
	h.samples[h.next] = float32(d.Seconds() * 1000)
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Samples returns the recorded frame times, oldest first.
func (h *FrameHistory) Samples() []float32 {
	out := make([]float32, 0, h.filled)
	start := (h.next - h.filled + len(h.samples)) % len(h.samples)
	for i := 0; i < h.filled; i++ {
		out = append(out, h.samples[(start+i)%len(h.samples)])
	}
	return out
}

// Average returns the mean frame time in milliseconds, or 0 when empty.
func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, s := range h.Samples() {
		sum += s
	}
	return sum / float32(h.filled)
}

// PerformanceStats shows the scheduler's stage layout with per-system timings
// next to the storage's size.
type PerformanceStats struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	history   *FrameHistory
	last      time.Time
}

func NewPerformanceStats(storage *ecs.Storage, scheduler *ecs.Scheduler, historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		storage:   storage,
		scheduler: scheduler,
		history:   NewFrameHistory(historyFrames),
	}
}

func (ps *PerformanceStats) Render() {
	now := time.Now()
	if !ps.last.IsZero() {
		ps.history.Push(now.Sub(ps.last))
	}
	ps.last = now

	defer imgui.End()
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		return
	}

	stats := ps.storage.CollectStats()
	sched := ps.scheduler.GetStats()

	imgui.Text(fmt.Sprintf("Tick: %d", sched.Ticks))
	imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", stats.TotalEntityCount, stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	if avg := ps.history.Average(); avg > 0 {
		imgui.Text(fmt.Sprintf("Avg frame: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	if samples := ps.history.Samples(); len(samples) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
	}

	imgui.Separator()
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSizingFixedFit
	if imgui.BeginTableV("Systems", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Stage")
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Avg (ms)")
		imgui.TableSetupColumn("Max (ms)")
		imgui.TableSetupColumn("Runs")
		imgui.TableHeadersRow()

		for _, sys := range sched.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sys.Stage))
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.AvgDuration.Microseconds())/1000))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.MaxDuration.Microseconds())/1000))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
		}
		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Archetypes") {
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%08X %v: %d", arch.ID, arch.ComponentTypes, arch.EntityCount))
		}
		imgui.TreePop()
	}
	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}
}
