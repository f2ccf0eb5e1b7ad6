package ecs

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	StageCount      int
	Ticks           uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type systemEntry struct {
	system  System
	name    string
	stage   int
	deps    []*systemEntry
	access  []Access
	queries []executor
	stats   systemStatsInternal
}

// Scheduler runs systems as a dependency graph of stages. A system's stage
// is one past the deepest system it was registered After; a system that
// would share a stage with another one touching the same component type
// for writing is pushed to a later stage. Stages run in order, and all
// systems of a stage have released their borrows before the next starts.
type Scheduler struct {
	storage  *Storage
	systems  []*systemEntry
	stages   [][]*systemEntry
	byValue  map[System]*systemEntry
	parallel bool
	ticks    uint64
}

type SchedulerOption func(*Scheduler)

// WithParallelStages runs the systems of a stage on separate goroutines.
func WithParallelStages() SchedulerOption {
	return func(s *Scheduler) { s.parallel = true }
}

type registration struct {
	after []System
}

type RegisterOption func(*registration)

// After makes the registered system run in a later stage than each of deps.
// Every dependency must already be registered.
func After(deps ...System) RegisterOption {
	return func(r *registration) { r.after = append(r.after, deps...) }
}

func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		byValue: make(map[System]*systemEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds the system's Query and Singleton fields, records its
// component accesses and places it in a stage.
func (s *Scheduler) Register(system System, opts ...RegisterOption) {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	entry := &systemEntry{
		system: system,
		name:   systemName(system),
		stats:  systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
	s.bindFields(entry)
	if declarer, ok := system.(AccessDeclarer); ok {
		entry.access = append(entry.access, declarer.Access()...)
	}
	entry.access = mergeAccess(entry.access)

	for _, dep := range reg.after {
		depEntry, ok := s.byValue[dep]
		if !ok {
			panic("scheduler: " + entry.name + " depends on unregistered system " + systemName(dep))
		}
		entry.deps = append(entry.deps, depEntry)
		entry.stage = max(entry.stage, depEntry.stage+1)
	}

	for entry.stage < len(s.stages) && s.conflictsInStage(entry) {
		entry.stage++
	}
	for len(s.stages) <= entry.stage {
		s.stages = append(s.stages, nil)
	}

	s.stages[entry.stage] = append(s.stages[entry.stage], entry)
	s.systems = append(s.systems, entry)
	s.byValue[system] = entry
}

func (s *Scheduler) conflictsInStage(entry *systemEntry) bool {
	for _, other := range s.stages[entry.stage] {
		if Conflicts(other.access, entry.access) {
			return true
		}
	}
	return false
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func (s *Scheduler) bindFields(entry *systemEntry) {
	v := reflect.ValueOf(entry.system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if q, ok := binder.(executor); ok {
			entry.queries = append(entry.queries, q)
		}
		if declarer, ok := binder.(AccessDeclarer); ok {
			entry.access = append(entry.access, declarer.Access()...)
		}
	}
}

// Stages returns system names grouped by stage, in execution order.
func (s *Scheduler) Stages() [][]string {
	out := make([][]string, len(s.stages))
	for i, stage := range s.stages {
		for _, entry := range stage {
			out[i] = append(out[i], entry.name)
		}
	}
	return out
}

// StageOf returns the stage index of a registered system, or -1.
func (s *Scheduler) StageOf(system System) int {
	if entry, ok := s.byValue[system]; ok {
		return entry.stage
	}
	return -1
}

// Access returns the merged component accesses a registered system declared.
func (s *Scheduler) Access(system System) []Access {
	if entry, ok := s.byValue[system]; ok {
		return entry.access
	}
	return nil
}

func (s *Scheduler) runSystem(entry *systemEntry, frame *UpdateFrame) {
	for _, q := range entry.queries {
		q.Execute()
	}

	release := s.storage.Borrow(entry.access...)
	defer release()

	start := time.Now()
	entry.system.Execute(frame)
	duration := time.Since(start)

	st := &entry.stats
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration
	st.minDuration = min(st.minDuration, duration)
	st.maxDuration = max(st.maxDuration, duration)
}

func (s *Scheduler) runStageParallel(stage []*systemEntry, frame *UpdateFrame) {
	var g errgroup.Group
	for _, entry := range stage {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok {
						err = fmt.Errorf("system %s: %w", entry.name, e)
					} else {
						err = fmt.Errorf("system %s: %v", entry.name, r)
					}
				}
			}()
			s.runSystem(entry, frame)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// Once runs every stage once and then flushes the structural changes the
// systems queued.
func (s *Scheduler) Once(dt float64) {
	s.ticks++
	frame := newUpdateFrame(s.ticks, dt, s.storage)

	for _, stage := range s.stages {
		if s.parallel && len(stage) > 1 {
			s.runStageParallel(stage, frame)
			continue
		}
		for _, entry := range stage {
			s.runSystem(entry, frame)
		}
	}

	frame.Commands.Flush(s.storage)
}

// Run calls Once at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Ticks returns how many times Once has run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		StageCount:  len(s.stages),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, entry := range s.systems {
		st := entry.stats
		var avg time.Duration
		if st.executionCount > 0 {
			avg = st.totalDuration / time.Duration(st.executionCount)
		}
		minDuration := st.minDuration
		if st.executionCount == 0 {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Stage:          entry.stage,
			ExecutionCount: st.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    st.maxDuration,
			AvgDuration:    avg,
			LastDuration:   st.lastDuration,
			TotalDuration:  st.totalDuration,
		}
		stats.TotalExecutions += st.executionCount
	}
	return stats
}
