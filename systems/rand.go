package systems

// Rand is the source of every randomized decision in a sub-step.
// *math/rand.Rand satisfies it; tests substitute fixed sequences.
type Rand interface {
	Float64() float64
}

// chance reports whether a draw from r lands below p.
func chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}

// symmetric returns a uniform value in [-amount, amount).
func symmetric(r Rand, amount float64) float64 {
	if amount == 0 {
		return 0
	}
	return (r.Float64()*2 - 1) * amount
}
