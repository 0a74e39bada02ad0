// Package renderer draws the fabric mesh onto a host-provided Surface.
package renderer

import "image/color"

// Surface is a drawing target supplied by the host. Coordinates are in the
// surface's own units (pixels for a window or image, cells for a terminal).
type Surface interface {
	// Size returns the drawable extent.
	Size() (w, h float64)
	// Clear fills the surface with bg.
	Clear(bg color.NRGBA)
	// Line draws a segment with the given stroke weight.
	Line(x1, y1, x2, y2, weight float64, c color.NRGBA)
	// Glyph draws r centred on (x, y).
	Glyph(x, y float64, r rune, size float64, c color.NRGBA, bold bool)
}

// Gray returns an opaque gray of the given tone.
func Gray(tone uint8) color.NRGBA {
	return color.NRGBA{R: tone, G: tone, B: tone, A: 255}
}

// Blend composites c over an opaque background, for surfaces without alpha.
func Blend(c, bg color.NRGBA) color.NRGBA {
	a := uint32(c.A)
	mix := func(fg, b uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(b)*(255-a)) / 255)
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 255}
}
