package main

import (
	"context"
	"syscall"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/walker/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScreen struct {
	tcell.SimulationScreen
	finis     int
	panicShow bool
}

func (s *recordingScreen) Fini() {
	s.finis++
	s.SimulationScreen.Fini()
}

func (s *recordingScreen) Show() {
	if s.panicShow {
		panic("display lost")
	}
	s.SimulationScreen.Show()
}

func newRecordingScreen(t *testing.T) *recordingScreen {
	t.Helper()
	screen := &recordingScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}
	require.NoError(t, screen.Init())
	return screen
}

func newTestSimulation(t *testing.T) *walker.Simulation {
	t.Helper()
	sim, err := walker.New(walker.DefaultConfig(), []walker.SheetBounds{walker.ReferenceSheet}, walker.Options{})
	require.NoError(t, err)
	return sim
}

func TestRunTerminalFinalisesScreen(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		screen := newRecordingScreen(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runTerminal(ctx, screen, newTestSimulation(t), &walker.ManualClock{})
		assert.NoError(t, err)
		assert.Equal(t, 1, screen.finis)
	})

	t.Run("panic", func(t *testing.T) {
		screen := newRecordingScreen(t)
		screen.panicShow = true

		assert.Panics(t, func() {
			_ = runTerminal(context.Background(), screen, newTestSimulation(t), &walker.ManualClock{})
		})
		assert.Equal(t, 1, screen.finis)
	})
}

func TestShutdownSignals(t *testing.T) {
	assert.Contains(t, shutdownSignals, syscall.SIGTERM)
}
