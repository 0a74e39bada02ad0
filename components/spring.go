package components

// Spring is a distance constraint between two particles.
// A and B index into the owning mesh's particle slice.
type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64

	// Length is the endpoint distance measured during the latest relaxation pass.
	Length float64
}

// Stretch returns Length relative to RestLength.
func (s *Spring) Stretch() float64 {
	if s.RestLength <= 0 {
		return 0
	}
	return s.Length / s.RestLength
}

// Touches reports whether particle i is one of the endpoints.
func (s *Spring) Touches(i int) bool {
	return i >= 0 && (s.A == i || s.B == i)
}
