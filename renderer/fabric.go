package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/unravel/camera"
	"github.com/pthm-cable/unravel/components"
	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/systems"
)

// FabricRenderer draws stretched springs as lines and particles as glyphs.
// It only reads the mesh.
type FabricRenderer struct {
	style config.RenderConfig
	rng   systems.Rand
}

// NewFabricRenderer creates a renderer. rng supplies line jitter.
func NewFabricRenderer(style config.RenderConfig, rng systems.Rand) *FabricRenderer {
	return &FabricRenderer{style: style, rng: rng}
}

// LineStyle is the appearance of one visible spring.
type LineStyle struct {
	Alpha  float64
	Weight float64
	Jitter float64
}

// SpringVisible reports whether a spring at this stretch ratio is drawn.
func (r *FabricRenderer) SpringVisible(stretch float64) bool {
	return stretch > r.style.VisibleStretch
}

// SpringStyle maps a stretch ratio to line appearance. All three maps share
// the [VisibleStretch, MaxStretch] domain: more stretch is fainter, thinner
// and jitterier, saturating at MaxStretch.
func (r *FabricRenderer) SpringStyle(stretch float64) LineStyle {
	s := r.style
	return LineStyle{
		Alpha:  systems.MapRange(stretch, s.VisibleStretch, s.MaxStretch, s.LineAlphaMax, s.LineAlphaMin),
		Weight: systems.MapRange(stretch, s.VisibleStretch, s.MaxStretch, s.LineWeightMax, s.LineWeightMin),
		Jitter: systems.MapRange(stretch, s.VisibleStretch, s.MaxStretch, 0, s.LineJitterMax),
	}
}

// GlyphTone returns the gray tone and weight for a particle.
func (r *FabricRenderer) GlyphTone(p *components.Particle, dragged bool) (tone uint8, bold bool) {
	s := r.style
	switch {
	case p.Edge:
		return s.ToneEdge, true
	case !p.Pinned || dragged:
		return s.ToneFree, false
	default:
		t := systems.MapRange(p.Speed(), 0, s.MaxSpeed, float64(s.ToneSlow), float64(s.ToneFast))
		return uint8(math.Round(t)), false
	}
}

// Draw clears the surface and renders the mesh through cam.
func (r *FabricRenderer) Draw(dst Surface, m *systems.Mesh, cam *camera.Camera) {
	bg := Gray(r.style.Background)
	dst.Clear(bg)
	if m.Empty() {
		return
	}

	r.drawFrame(dst, m, cam)
	r.drawSprings(dst, m, cam)
	r.drawParticles(dst, m, cam)
}

// drawFrame outlines the grid's construction rectangle, padded outward.
func (r *FabricRenderer) drawFrame(dst Surface, m *systems.Mesh, cam *camera.Camera) {
	pad := r.style.FramePadding
	x0, y0, x1, y1 := m.Bounds()
	ax, ay := cam.WorldToScreen(x0-pad, y0-pad)
	bx, by := cam.WorldToScreen(x1+pad, y1+pad)

	c := Gray(r.style.FrameTone)
	w := r.style.FrameWeight
	dst.Line(ax, ay, bx, ay, w, c)
	dst.Line(bx, ay, bx, by, w, c)
	dst.Line(bx, by, ax, by, w, c)
	dst.Line(ax, by, ax, ay, w, c)
}

func (r *FabricRenderer) drawSprings(dst Surface, m *systems.Mesh, cam *camera.Camera) {
	for i := range m.Springs {
		sp := &m.Springs[i]
		stretch := sp.Stretch()
		if !r.SpringVisible(stretch) {
			continue
		}
		ls := r.SpringStyle(stretch)

		a := &m.Particles[sp.A]
		b := &m.Particles[sp.B]
		x1, y1 := cam.WorldToScreen(a.X+r.jitter(ls.Jitter), a.Y+r.jitter(ls.Jitter))
		x2, y2 := cam.WorldToScreen(b.X+r.jitter(ls.Jitter), b.Y+r.jitter(ls.Jitter))

		c := Gray(r.style.ToneFree)
		c.A = uint8(math.Round(ls.Alpha))
		dst.Line(x1, y1, x2, y2, ls.Weight*cam.Zoom, c)
	}
}

func (r *FabricRenderer) drawParticles(dst Surface, m *systems.Mesh, cam *camera.Camera) {
	size := r.style.FontSize * cam.Zoom
	for i := range m.Particles {
		p := &m.Particles[i]
		if !cam.IsVisible(p.X, p.Y, r.style.CullMargin) {
			continue
		}
		tone, bold := r.GlyphTone(p, i == m.Dragged)
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		dst.Glyph(sx, sy, p.Glyph, size, Gray(tone), bold)
	}
}

func (r *FabricRenderer) jitter(amount float64) float64 {
	if amount == 0 || r.rng == nil {
		return 0
	}
	return (r.rng.Float64()*2 - 1) * amount
}

// Background returns the clear color.
func (r *FabricRenderer) Background() color.NRGBA {
	return Gray(r.style.Background)
}
