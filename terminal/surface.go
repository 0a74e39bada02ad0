// Package terminal hosts the simulation in a text terminal: cells are the
// drawing surface and the mouse drives the pointer.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/unravel/renderer"
)

// Line stroke runes, light to heavy.
const (
	thinStroke  = '·'
	heavyStroke = '•'
)

// Surface draws onto a tcell screen in cell units. Alpha is composited
// against the last cleared background since cells have no transparency.
type Surface struct {
	screen tcell.Screen
	bg     color.NRGBA
}

// NewSurface wraps screen.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen, bg: renderer.Gray(255)}
}

// Size returns the screen size in cells.
func (s *Surface) Size() (w, h float64) {
	cols, rows := s.screen.Size()
	return float64(cols), float64(rows)
}

// Clear fills every cell with bg.
func (s *Surface) Clear(bg color.NRGBA) {
	s.bg = bg
	s.screen.Fill(' ', tcell.StyleDefault.Background(toColor(bg)))
}

// Line plots the cells a segment passes through. Heavier strokes use a
// bolder dot.
func (s *Surface) Line(x1, y1, x2, y2, weight float64, c color.NRGBA) {
	r := thinStroke
	if weight >= 1 {
		r = heavyStroke
	}
	style := s.style(c, false)

	steps := int(math.Ceil(math.Max(math.Abs(x2-x1), math.Abs(y2-y1))))
	if steps == 0 {
		s.put(x1, y1, r, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.put(x1+(x2-x1)*t, y1+(y2-y1)*t, r, style)
	}
}

// Glyph writes r into the cell containing (x, y); size is fixed by the terminal.
func (s *Surface) Glyph(x, y float64, r rune, _ float64, c color.NRGBA, bold bool) {
	s.put(x, y, r, s.style(c, bold))
}

func (s *Surface) put(x, y float64, r rune, style tcell.Style) {
	cx, cy := int(math.Round(x)), int(math.Round(y))
	cols, rows := s.screen.Size()
	if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		return
	}
	s.screen.SetContent(cx, cy, r, nil, style)
}

func (s *Surface) style(c color.NRGBA, bold bool) tcell.Style {
	return tcell.StyleDefault.
		Foreground(toColor(renderer.Blend(c, s.bg))).
		Background(toColor(s.bg)).
		Bold(bold)
}

func toColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
