package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ImageSurface rasterizes frames offscreen for headless snapshots.
type ImageSurface struct {
	img  *image.RGBA
	face font.Face
	ras  *vector.Rasterizer
}

// NewImageSurface creates a w x h offscreen surface.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		img:  image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		face: basicfont.Face7x13,
		ras:  vector.NewRasterizer(1, 1),
	}
}

// Size returns the image dimensions.
func (s *ImageSurface) Size() (w, h float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear fills the image with bg.
func (s *ImageSurface) Clear(bg color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Line draws a segment as a filled quad of the given weight.
func (s *ImageSurface) Line(x1, y1, x2, y2, weight float64, c color.NRGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 || weight <= 0 {
		return
	}
	// Half-width normal
	nx := -dy / length * weight / 2
	ny := dx / length * weight / 2

	pad := weight + 1
	bounds := image.Rect(
		int(math.Floor(math.Min(x1, x2)-pad)),
		int(math.Floor(math.Min(y1, y2)-pad)),
		int(math.Ceil(math.Max(x1, x2)+pad)),
		int(math.Ceil(math.Max(y1, y2)+pad)),
	).Intersect(s.img.Bounds())
	if bounds.Empty() {
		return
	}

	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	s.ras.Reset(bounds.Dx(), bounds.Dy())
	s.ras.DrawOp = draw.Over
	s.ras.MoveTo(float32(x1+nx-ox), float32(y1+ny-oy))
	s.ras.LineTo(float32(x2+nx-ox), float32(y2+ny-oy))
	s.ras.LineTo(float32(x2-nx-ox), float32(y2-ny-oy))
	s.ras.LineTo(float32(x1-nx-ox), float32(y1-ny-oy))
	s.ras.ClosePath()
	s.ras.Draw(s.img, bounds, image.NewUniform(c), image.Point{})
}

// Glyph draws r centred on (x, y) with the fixed 7x13 face; size is ignored.
// Bold glyphs are struck twice one pixel apart.
func (s *ImageSurface) Glyph(x, y float64, r rune, _ float64, c color.NRGBA, bold bool) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(int(math.Round(x))-3, int(math.Round(y))+4),
	}
	d.DrawString(string(r))
	if bold {
		d.Dot = fixed.P(int(math.Round(x))-2, int(math.Round(y))+4)
		d.DrawString(string(r))
	}
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// WritePNG encodes the current frame to path.
func (s *ImageSurface) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, s.img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
