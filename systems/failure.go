package systems

// BreakProbability returns the per-sub-step chance that a spring whose
// midpoint lies d from the pointer is removed. It falls off quadratically
// and is zero at or beyond radius.
func BreakProbability(d, radius, maxProbability float64) float64 {
	if radius <= 0 {
		return 0
	}
	closeness := clamp01(1 - d/radius)
	return closeness * closeness * maxProbability
}

// Fail runs the structural failure pass over the live springs using the
// lengths measured by the preceding Relax. Stretched springs loosen their
// interior endpoints; springs near the pointer may be removed for good.
func (s *Stepper) Fail(m *Mesh, ptr Pointer) StepStats {
	p := s.params
	var stats StepStats

	live := m.Springs[:0]
	for i := range m.Springs {
		sp := m.Springs[i]

		if sp.Length > sp.RestLength*p.UnpinThreshold {
			stats.Unpinned += s.unpinEndpoints(m, sp.A, sp.B)
		}

		if !sp.Touches(m.Dragged) && ptr.Known {
			a := &m.Particles[sp.A]
			b := &m.Particles[sp.B]
			midX := (a.X + b.X) / 2
			midY := (a.Y + b.Y) / 2
			d := distance(midX, midY, ptr.X, ptr.Y)
			if chance(s.rng, BreakProbability(d, p.InfluenceRadius, p.MaxBreakProbability)) {
				stats.Broken++
				continue
			}
		}

		live = append(live, sp)
	}
	m.Springs = live

	return stats
}

// unpinEndpoints rolls once for an overstretched spring. On success every
// pinned, non-edge endpoint is released, so the partner of a dragged particle
// goes with the same draw.
func (s *Stepper) unpinEndpoints(m *Mesh, a, b int) int {
	if !chance(s.rng, s.params.UnpinProbability) {
		return 0
	}
	n := 0
	for _, i := range [2]int{a, b} {
		pt := &m.Particles[i]
		if pt.Pinned && !pt.Edge {
			pt.Pinned = false
			n++
		}
	}
	return n
}
