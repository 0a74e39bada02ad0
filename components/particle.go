// Package components defines the data types shared by the mesh, the
// simulation step and the renderer.
package components

import "math"

// NoParticle marks an absent particle index (e.g. nothing dragged).
const NoParticle = -1

// Particle is a point mass carrying a displayed glyph.
// Velocity is implicit: (X, Y) - (PrevX, PrevY).
type Particle struct {
	X, Y         float64
	PrevX, PrevY float64
	Glyph        rune

	// Pinned particles ignore spring and body forces, but not drag.
	Pinned bool
	// Edge particles sit on the grid boundary and stay pinned for life.
	Edge bool
}

// NewParticle creates a particle at rest at (x, y).
func NewParticle(x, y float64, glyph rune) Particle {
	return Particle{X: x, Y: y, PrevX: x, PrevY: y, Glyph: glyph}
}

// Speed returns the distance travelled during the last integration step.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.X-p.PrevX, p.Y-p.PrevY)
}
