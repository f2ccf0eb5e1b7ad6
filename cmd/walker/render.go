package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/plus3/walker/walker"
	"golang.org/x/image/font/basicfont"
)

type sheet struct {
	Image *ebiten.Image
}

func (s sheet) Bounds() walker.SheetBounds {
	b := s.Image.Bounds()
	return walker.SheetBounds{Width: b.Dx(), Height: b.Dy()}
}

var frameColors = [...]color.RGBA{
	{R: 230, G: 120, B: 90, A: 255},
	{R: 240, G: 200, B: 110, A: 255},
	{R: 120, G: 200, B: 140, A: 255},
	{R: 110, G: 160, B: 230, A: 255},
}

// loadSheet reads the spritesheet at path. A missing file is replaced by a
// generated sheet with one coloured block per frame.
func loadSheet(path string, cfg walker.Config) (sheet, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err == nil {
		return sheet{Image: img}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return sheet{}, fmt.Errorf("load %s: %w", path, err)
	}

	f := cfg.FirstFrame
	w := f.X + f.W*cfg.FramesPerDirection
	h := f.Y + f.H*len(walker.Directions)
	img = ebiten.NewImage(w, h)
	for _, d := range walker.Directions {
		for i, s := range walker.CharacterAnimationFrames(cfg.PlayerSheet, f, d, cfg.FramesPerDirection) {
			r := s.Region
			frame := img.SubImage(image.Rect(r.X+2, r.Y+2, r.X+r.W-2, r.Y+r.H-2)).(*ebiten.Image)
			c := frameColors[d]
			dim := uint8(min(i*30, 90))
			c.R, c.G, c.B = c.R-dim, c.G-dim, c.B-dim
			frame.Fill(c)
		}
	}
	return sheet{Image: img}, nil
}

// spriteRenderer draws snapshots onto target, which the game sets before
// each Render.
type spriteRenderer struct {
	cfg    walker.Config
	sheets []*ebiten.Image
	target *ebiten.Image
}

func (r *spriteRenderer) Render(snap walker.Snapshot) error {
	if r.target == nil {
		return errors.New("no render target")
	}
	shade := walker.BackgroundShade(snap.Tick)
	r.target.Fill(color.RGBA{R: shade, G: shade, B: shade, A: 255})

	bounds := r.target.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	scale := float64(r.cfg.DisplayMultiplier(width, height))

	for _, entry := range snap.Entries {
		if entry.Sprite.Sheet < 0 || entry.Sprite.Sheet >= len(r.sheets) {
			return fmt.Errorf("entity %s: %w: %d", entry.Entity, walker.ErrUnknownSheet, entry.Sprite.Sheet)
		}
		src := entry.Sprite.Region
		frame := r.sheets[entry.Sprite.Sheet].SubImage(image.Rect(src.X, src.Y, src.X+src.W, src.Y+src.H)).(*ebiten.Image)
		dst := r.cfg.ScreenRect(entry.Position, src, width, height)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(dst.X), float64(dst.Y))
		r.target.DrawImage(frame, op)
	}

	r.drawHUD(snap)
	return nil
}

func (r *spriteRenderer) drawHUD(snap walker.Snapshot) {
	hud := fmt.Sprintf("tick %d  entities %d  TPS %0.0f", snap.Tick, len(snap.Entries), ebiten.ActualTPS())
	if len(snap.Entries) > 0 {
		e := snap.Entries[0]
		hud += fmt.Sprintf("  %s %s", e.Position, e.State)
	}
	if snap.Commanded {
		hud += "  " + snap.Command.String()
	}
	fg := color.Color(color.White)
	if walker.BackgroundShade(snap.Tick) > 160 {
		fg = color.Black
	}
	text.Draw(r.target, hud, basicfont.Face7x13, 4, 14, fg)
}
