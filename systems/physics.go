package systems

import (
	"math"

	"github.com/pthm-cable/unravel/config"
)

// StepParams holds the constants one sub-step runs with.
type StepParams struct {
	Stiffness   float64
	Gravity     float64
	Damping     float64
	ClockStep   float64
	Epsilon     float64
	GroundClamp bool

	WindScale    float64
	WindStrength float64

	UnpinThreshold      float64
	UnpinProbability    float64
	InfluenceRadius     float64
	MaxBreakProbability float64

	DragJitter float64
}

// StepParamsFromConfig extracts sub-step constants from the loaded config.
func StepParamsFromConfig(cfg *config.Config) StepParams {
	return StepParams{
		Stiffness:           cfg.Physics.Stiffness,
		Gravity:             cfg.Physics.Gravity,
		Damping:             cfg.Physics.Damping,
		ClockStep:           cfg.Physics.ClockStep,
		Epsilon:             cfg.Physics.Epsilon,
		GroundClamp:         cfg.Physics.GroundClamp,
		WindScale:           cfg.Wind.Scale,
		WindStrength:        cfg.Wind.Strength,
		UnpinThreshold:      cfg.Failure.UnpinThreshold,
		UnpinProbability:    cfg.Failure.UnpinProbability,
		InfluenceRadius:     cfg.Failure.InfluenceRadius,
		MaxBreakProbability: cfg.Failure.MaxBreakProbability,
		DragJitter:          cfg.Interaction.DragJitter,
	}
}

// Pointer is the latest pointer position seen by the host.
type Pointer struct {
	X, Y float64
	// Known is false until the first press or move event.
	Known bool
}

// StepStats counts structural failures during one or more sub-steps.
type StepStats struct {
	Unpinned int
	Broken   int
}

// Add accumulates o into s.
func (s *StepStats) Add(o StepStats) {
	s.Unpinned += o.Unpinned
	s.Broken += o.Broken
}

// Stepper advances a mesh one physics sub-step at a time.
type Stepper struct {
	params StepParams
	noise  NoiseSource
	rng    Rand
}

// NewStepper creates a stepper drawing wind from noise and decisions from rng.
func NewStepper(params StepParams, noise NoiseSource, rng Rand) *Stepper {
	return &Stepper{params: params, noise: noise, rng: rng}
}

// Params returns the stepper's constants.
func (s *Stepper) Params() StepParams {
	return s.params
}

// Step runs one full sub-step in its fixed order. floor is the drawing
// surface height used by the ground clamp.
func (s *Stepper) Step(m *Mesh, ptr Pointer, floor float64) StepStats {
	if m.Empty() {
		return StepStats{}
	}
	s.Relax(m)
	stats := s.Fail(m, ptr)
	s.Integrate(m, floor)
	s.DragOverride(m, ptr)
	s.Advance(m)
	return stats
}

// Relax recomputes every live spring's length and moves its free endpoints
// toward the rest length.
func (s *Stepper) Relax(m *Mesh) {
	eps := s.params.Epsilon
	for i := range m.Springs {
		sp := &m.Springs[i]
		a := &m.Particles[sp.A]
		b := &m.Particles[sp.B]

		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Max(math.Hypot(dx, dy), eps)
		sp.Length = dist

		delta := (sp.RestLength - dist) / dist
		k := 0.5 * sp.Stiffness * delta
		ox, oy := dx*k, dy*k

		if !a.Pinned && !m.isDragged(sp.A) {
			a.X -= ox
			a.Y -= oy
		}
		if !b.Pinned && !m.isDragged(sp.B) {
			b.X += ox
			b.Y += oy
		}
	}
}

// Integrate applies gravity and wind to free particles with Verlet
// integration, then clamps them above the floor.
func (s *Stepper) Integrate(m *Mesh, floor float64) {
	p := s.params
	for i := range m.Particles {
		pt := &m.Particles[i]
		if pt.Pinned || m.isDragged(i) {
			continue
		}

		wind := Wind(s.noise, pt.X, pt.Y, m.Clock, p.WindScale, p.WindStrength)

		vx := (pt.X - pt.PrevX) * p.Damping
		vy := (pt.Y - pt.PrevY) * p.Damping
		pt.PrevX, pt.PrevY = pt.X, pt.Y
		pt.X += vx + wind
		pt.Y += vy + p.Gravity

		if p.GroundClamp && pt.Y > floor {
			pt.Y = floor
		}
	}
}

// DragOverride pins the dragged particle to the pointer plus a small jitter.
func (s *Stepper) DragOverride(m *Mesh, ptr Pointer) {
	pt, ok := m.DraggedParticle()
	if !ok || !ptr.Known {
		return
	}
	pt.X = ptr.X + symmetric(s.rng, s.params.DragJitter)
	pt.Y = ptr.Y + symmetric(s.rng, s.params.DragJitter)
	pt.Pinned = false
}

// Advance moves the simulation clock forward one sub-step.
func (s *Stepper) Advance(m *Mesh) {
	m.Clock += s.params.ClockStep
}
