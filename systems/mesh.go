// Package systems holds the fabric mesh and the per-sub-step physics that
// stretches, loosens, tears and integrates it.
package systems

import (
	"math"

	"github.com/pthm-cable/unravel/components"
)

// MeshParams describes a fabric grid to build.
type MeshParams struct {
	Width, Height float64 // Container size the grid is centred in
	Cols, Rows    int
	Spacing       float64
	Stiffness     float64
	Glyphs        []rune // Repeating source, assigned row-major
}

// Mesh owns the particle arena and the live spring set.
// Springs reference particles by index; a rebuild replaces both at once.
type Mesh struct {
	Particles []components.Particle
	Springs   []components.Spring

	Cols, Rows int
	Spacing    float64
	// OriginX, OriginY locate the top-left particle as built.
	OriginX, OriginY float64

	// Dragged is the pointer-held particle index, or components.NoParticle.
	Dragged int
	// Clock drives the wind noise and advances once per sub-step.
	Clock float64

	initialSprings int
}

// NewMesh builds a centred cols x rows grid. Boundary particles are edges;
// every particle starts pinned so the fabric reads as a solid block of text.
func NewMesh(p MeshParams) *Mesh {
	cols, rows := max(p.Cols, 0), max(p.Rows, 0)
	glyphs := p.Glyphs
	if len(glyphs) == 0 {
		glyphs = []rune{' '}
	}

	m := &Mesh{
		Particles: make([]components.Particle, 0, cols*rows),
		Cols:      cols,
		Rows:      rows,
		Spacing:   p.Spacing,
		Dragged:   components.NoParticle,
	}
	if cols == 0 || rows == 0 {
		return m
	}

	startX := (p.Width - float64(cols-1)*p.Spacing) / 2
	startY := (p.Height - float64(rows-1)*p.Spacing) / 2
	m.OriginX, m.OriginY = startX, startY

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			pt := components.NewParticle(
				startX+float64(col)*p.Spacing,
				startY+float64(row)*p.Spacing,
				glyphs[idx%len(glyphs)],
			)
			pt.Edge = row == 0 || row == rows-1 || col == 0 || col == cols-1
			pt.Pinned = true
			m.Particles = append(m.Particles, pt)
		}
	}

	m.Springs = make([]components.Spring, 0, (cols-1)*rows+cols*(rows-1))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if col+1 < cols {
				m.Springs = append(m.Springs, newSpring(idx, idx+1, p))
			}
			if row+1 < rows {
				m.Springs = append(m.Springs, newSpring(idx, idx+cols, p))
			}
		}
	}
	m.initialSprings = len(m.Springs)

	return m
}

func newSpring(a, b int, p MeshParams) components.Spring {
	return components.Spring{
		A:          a,
		B:          b,
		RestLength: p.Spacing,
		Stiffness:  p.Stiffness,
		Length:     p.Spacing,
	}
}

// Index returns the arena index of the particle at (col, row), or
// components.NoParticle when out of range.
func (m *Mesh) Index(col, row int) int {
	if col < 0 || row < 0 || col >= m.Cols || row >= m.Rows {
		return components.NoParticle
	}
	return row*m.Cols + col
}

// Nearest returns the particle closest to (x, y) within maxDist.
func (m *Mesh) Nearest(x, y, maxDist float64) (int, bool) {
	best := components.NoParticle
	bestDist := math.Inf(1)
	for i := range m.Particles {
		p := &m.Particles[i]
		d := distance(x, y, p.X, p.Y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best == components.NoParticle || bestDist > maxDist {
		return components.NoParticle, false
	}
	return best, true
}

// Drag marks particle i as pointer-held and frees it. Edge particles are
// refused. Any previous drag is replaced.
func (m *Mesh) Drag(i int) bool {
	if i < 0 || i >= len(m.Particles) || m.Particles[i].Edge {
		return false
	}
	m.Dragged = i
	m.Particles[i].Pinned = false
	return true
}

// Release clears the drag marker. The released particle stays free.
func (m *Mesh) Release() {
	m.Dragged = components.NoParticle
}

// DraggedParticle returns the pointer-held particle, if any.
func (m *Mesh) DraggedParticle() (*components.Particle, bool) {
	if m.Dragged < 0 || m.Dragged >= len(m.Particles) {
		return nil, false
	}
	return &m.Particles[m.Dragged], true
}

// isDragged reports whether i is the pointer-held particle.
func (m *Mesh) isDragged(i int) bool {
	return m.Dragged >= 0 && m.Dragged == i
}

// Bounds returns the rectangle the grid occupied when built. Particles may
// since have left it.
func (m *Mesh) Bounds() (x0, y0, x1, y1 float64) {
	x0, y0 = m.OriginX, m.OriginY
	x1 = x0 + float64(max(m.Cols-1, 0))*m.Spacing
	y1 = y0 + float64(max(m.Rows-1, 0))*m.Spacing
	return x0, y0, x1, y1
}

// InitialSprings returns the spring count at construction.
func (m *Mesh) InitialSprings() int {
	return m.initialSprings
}

// TornFraction returns the share of springs removed since construction.
func (m *Mesh) TornFraction() float64 {
	if m.initialSprings == 0 {
		return 0
	}
	return 1 - float64(len(m.Springs))/float64(m.initialSprings)
}

// FreeCount returns the number of unpinned particles.
func (m *Mesh) FreeCount() int {
	n := 0
	for i := range m.Particles {
		if !m.Particles[i].Pinned {
			n++
		}
	}
	return n
}

// Empty reports whether the mesh holds no particles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Particles) == 0
}
