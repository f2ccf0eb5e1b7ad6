package walker

// WindowFactor is the largest k >= 1 such that the configured window size
// scaled by k fits inside width x height.
func (c Config) WindowFactor(width, height int) int {
	k := 1
	for c.WindowWidth*(k+1) <= width && c.WindowHeight*(k+1) <= height {
		k++
	}
	return k
}

// DisplayMultiplier is the on-screen sprite scale for a window of the
// given size.
func (c Config) DisplayMultiplier(width, height int) int {
	return c.DisplayScale * c.WindowFactor(width, height)
}

// BackgroundShade is the grey level of the background at a tick. It cycles
// through 0..254.
func BackgroundShade(tick uint64) uint8 {
	return uint8(tick % 255)
}

// ScreenRect is where a sprite frame is drawn on a width x height screen.
// The world origin is the screen centre, positions are multiplied by the
// window factor and the frame by the full display multiplier.
func (c Config) ScreenRect(pos Position, frame Rect, width, height int) Rect {
	k := c.WindowFactor(width, height)
	scale := c.DisplayScale * k
	w, h := frame.W*scale, frame.H*scale
	cx, cy := width/2+pos.X*k, height/2+pos.Y*k
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Cell maps a position to a cell of a cols x rows terminal grid, one cell
// per cellSize world units, with the world origin at the grid centre.
func Cell(pos Position, cellSize, cols, rows int) (x, y int) {
	return cols/2 + floorDiv(pos.X, cellSize), rows/2 + floorDiv(pos.Y, cellSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
