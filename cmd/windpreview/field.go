package main

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/unravel/systems"
)

var sources = []string{"simplex", "perlin"}

// nextSource cycles through the supported noise sources.
func nextSource(current string) string {
	for i, s := range sources {
		if s == current {
			return sources[(i+1)%len(sources)]
		}
	}
	return sources[0]
}

// sampleWind evaluates the wind at the centre of each cell of a cols x rows
// grid spanning a w x h world, row-major.
func sampleWind(n systems.NoiseSource, w, h float64, cols, rows int, clock, scale, strength float64) []float64 {
	field := make([]float64, cols*rows)
	cellW := w / float64(cols)
	cellH := h / float64(rows)
	for row := 0; row < rows; row++ {
		y := (float64(row) + 0.5) * cellH
		for col := 0; col < cols; col++ {
			x := (float64(col) + 0.5) * cellW
			field[row*cols+col] = systems.Wind(n, x, y, clock, scale, strength)
		}
	}
	return field
}

// fieldRange returns the min, max and mean of field.
func fieldRange(field []float64) (lo, hi, mean float64) {
	if len(field) == 0 {
		return 0, 0, 0
	}
	lo, hi = field[0], field[0]
	var sum float64
	for _, v := range field {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}
	return lo, hi, sum / float64(len(field))
}

// yamlSnippet renders params as the wind section of a config file.
func yamlSnippet(p WindParams) []string {
	return []string{
		"wind:",
		fmt.Sprintf("  source: %s", p.Source),
		fmt.Sprintf("  seed: %d", p.Seed),
		fmt.Sprintf("  scale: %.4f", p.Scale),
		fmt.Sprintf("  strength: %.3f", p.Strength),
		"physics:",
		fmt.Sprintf("  clock_step: %.4f", p.ClockStep),
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
