package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// maxNoise is the largest value a NoiseSource may return.
var maxNoise = math.Nextafter(1, 0)

// NoiseSource supplies coherent noise in [0, 1). It must be a pure function
// of its arguments.
type NoiseSource interface {
	Noise3(x, y, t float64) float64
}

// NewNoiseSource returns the named noise implementation ("simplex" or "perlin").
func NewNoiseSource(source string, seed int64) (NoiseSource, error) {
	switch source {
	case "simplex", "":
		return NewSimplexNoise(seed), nil
	case "perlin":
		return NewPerlinNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise source %q", source)
	}
}

// SimplexNoise wraps OpenSimplex noise normalized to [0, 1).
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates a seeded OpenSimplex source.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.NewNormalized(seed)}
}

// Noise3 returns the noise value at (x, y, t).
func (s *SimplexNoise) Noise3(x, y, t float64) float64 {
	return Clamp(s.noise.Eval3(x, y, t), 0, maxNoise)
}

// PerlinNoise generates coherent noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashes never index past the table
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise3 returns Noise3D remapped from [-1, 1] to [0, 1).
func (p *PerlinNoise) Noise3(x, y, t float64) float64 {
	return Clamp((p.Noise3D(x, y, t)+1)/2, 0, maxNoise)
}

// Noise3D returns a signed noise value for 3D coordinates.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	// Find unit cube
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255
	Z := int(math.Floor(z)) & 255

	// Find relative position in cube
	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	// Blend results from 8 corners
	return lerp(w, lerp(v, lerp(u, grad3D(p.perm[AA], x, y, z),
		grad3D(p.perm[BA], x-1, y, z)),
		lerp(u, grad3D(p.perm[AB], x, y-1, z),
			grad3D(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(p.perm[AA+1], x, y, z-1),
			grad3D(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[AB+1], x, y-1, z-1),
				grad3D(p.perm[BB+1], x-1, y-1, z-1))))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Wind returns the horizontal wind acceleration at (x, y) for clock t,
// remapping noise from [0, 1) to [-strength, strength).
func Wind(n NoiseSource, x, y, t, scale, strength float64) float64 {
	if n == nil || strength == 0 {
		return 0
	}
	return (n.Noise3(x*scale, y*scale, t) - 0.5) * 2 * strength
}
