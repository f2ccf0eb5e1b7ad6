package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/walker/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Walkers    int
	Parallel   bool
	ChurnEvery uint64
	ChurnCount int

	// Results
	TotalTicks     int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Deleted        int
	Respawned      int
	Compactions    int
	Scheduler      *ecs.SchedulerStats
	Storage        *ecs.StorageStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P50     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	s.P50 = sorted[len(sorted)/2]
	s.P99 = sorted[min(len(sorted)*99/100, len(sorted)-1)]
}

func (r *Report) TicksPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.TotalTicks) / r.TotalTime.Seconds()
}

const reportTemplate = `
# Walker Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Walkers:** {{.Walkers}}
- **Parallel Stages:** {{.Parallel}}
{{- if .ChurnEvery}}
- **Churn:** {{.ChurnCount}} walkers every {{.ChurnEvery}} ticks
{{- end}}

## Tick Results
- **Total Ticks:** {{.TotalTicks}} ({{printf "%.0f" .TicksPerSecond}}/s)
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P50:** {{.UpdateTime.P50}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{- if .ChurnEvery}}
- **Deleted / Respawned:** {{.Deleted}} / {{.Respawned}}
- **Compactions:** {{.Compactions}}
{{- end}}

## Systems
| Stage | System | Runs | Avg | Max | Total |
|---|---|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Stage}} | {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{- end}}

## Storage
- **Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes
{{- range .Storage.ArchetypeBreakdown}}
  - {{printf "%08x" .ID}}: {{.EntityCount}} ({{join .ComponentTypes ", "}})
{{- end}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
		"join": strings.Join,
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
