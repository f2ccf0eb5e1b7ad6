package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/walker/walker"
)

// cellSize is the number of world units per terminal cell.
const cellSize = 20

var (
	walkGlyphs = [...]rune{walker.Up: '↑', walker.Down: '↓', walker.Left: '←', walker.Right: '→'}
	idleGlyphs = [...]rune{walker.Up: '^', walker.Down: 'v', walker.Left: '<', walker.Right: '>'}
)

func glyph(state walker.AnimationState) rune {
	if state.Walking {
		return walkGlyphs[state.Direction]
	}
	return idleGlyphs[state.Direction]
}

// glyphRenderer draws one glyph per entity, with the world origin at the
// centre of the screen. The first row is a status line.
type glyphRenderer struct {
	screen tcell.Screen
}

func (r *glyphRenderer) Render(snap walker.Snapshot) error {
	shade := int32(walker.BackgroundShade(snap.Tick))
	bg := tcell.StyleDefault.Background(tcell.NewRGBColor(shade, shade, shade))
	fg := bg.Foreground(tcell.ColorYellow).Bold(true)

	r.screen.Fill(' ', bg)
	cols, rows := r.screen.Size()

	for _, entry := range snap.Entries {
		x, y := walker.Cell(entry.Position, cellSize, cols, rows)
		if x < 0 || x >= cols || y < 1 || y >= rows {
			continue
		}
		r.screen.SetContent(x, y, glyph(entry.State), nil, fg)
	}

	status := fmt.Sprintf("tick %d  entities %d", snap.Tick, len(snap.Entries))
	if len(snap.Entries) > 0 {
		e := snap.Entries[0]
		status += fmt.Sprintf("  %s %s", e.Position, e.State)
	}
	if snap.Commanded {
		status += "  " + snap.Command.String()
	}
	r.drawText(0, 0, status, tcell.StyleDefault.Reverse(true))

	r.screen.Show()
	return nil
}

func (r *glyphRenderer) drawText(x, y int, text string, style tcell.Style) {
	cols, _ := r.screen.Size()
	for _, c := range text {
		if x >= cols {
			return
		}
		r.screen.SetContent(x, y, c, nil, style)
		x++
	}
}
