// Package window hosts the simulation in a resizable raylib window with
// mouse dragging, a reset button and a debug overlay.
package window

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Surface draws onto the current raylib frame in pixels. Calls must happen
// between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	font rl.Font
}

// NewSurface creates a surface using the default raylib font. The window
// must already be open.
func NewSurface() *Surface {
	return &Surface{font: rl.GetFontDefault()}
}

// Size returns the window size in pixels.
func (s *Surface) Size() (w, h float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

// Clear fills the frame with bg.
func (s *Surface) Clear(bg color.NRGBA) {
	rl.ClearBackground(toColor(bg))
}

// Line draws an anti-aliased segment of the given thickness.
func (s *Surface) Line(x1, y1, x2, y2, weight float64, c color.NRGBA) {
	rl.DrawLineEx(
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		rl.Vector2{X: float32(x2), Y: float32(y2)},
		float32(weight),
		toColor(c),
	)
}

// Glyph draws r centred on (x, y). Bold glyphs are struck twice.
func (s *Surface) Glyph(x, y float64, r rune, size float64, c color.NRGBA, bold bool) {
	text := string(r)
	fs := float32(size)
	spacing := fs / 10
	dim := rl.MeasureTextEx(s.font, text, fs, spacing)
	pos := rl.Vector2{X: float32(x) - dim.X/2, Y: float32(y) - dim.Y/2}

	tint := toColor(c)
	rl.DrawTextEx(s.font, text, pos, fs, spacing, tint)
	if bold {
		pos.X++
		rl.DrawTextEx(s.font, text, pos, fs, spacing, tint)
	}
}

func toColor(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
