package main

import (
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/unravel/systems"
)

func TestNextSource(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"simplex", "perlin"},
		{"perlin", "simplex"},
		{"bogus", "simplex"},
	}
	for _, tt := range tests {
		if got := nextSource(tt.in); got != tt.want {
			t.Errorf("nextSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSampleWind_BoundedByStrength(t *testing.T) {
	n := systems.NewSimplexNoise(7)
	field := sampleWind(n, 640, 400, 16, 10, 0.5, 0.01, 0.05)

	if len(field) != 160 {
		t.Fatalf("expected 160 samples, got %d", len(field))
	}
	for i, v := range field {
		if math.Abs(v) > 0.05 {
			t.Errorf("sample %d = %v exceeds strength", i, v)
		}
	}

	lo, hi, _ := fieldRange(field)
	if lo == hi {
		t.Error("field should vary across the grid")
	}
}

func TestSampleWind_ZeroStrength(t *testing.T) {
	field := sampleWind(systems.NewPerlinNoise(1), 100, 100, 4, 4, 0, 0.01, 0)
	for _, v := range field {
		if v != 0 {
			t.Fatalf("zero strength should give zero wind, got %v", v)
		}
	}
}

func TestFieldRange(t *testing.T) {
	lo, hi, mean := fieldRange([]float64{-1, 2, 5})
	if lo != -1 || hi != 5 || mean != 2 {
		t.Errorf("got (%v, %v, %v), want (-1, 5, 2)", lo, hi, mean)
	}
	if lo, hi, mean := fieldRange(nil); lo != 0 || hi != 0 || mean != 0 {
		t.Error("empty field should return zeros")
	}
}

func TestYAMLSnippet(t *testing.T) {
	out := joinLines(yamlSnippet(WindParams{Source: "perlin", Seed: 3, Scale: 0.006, Strength: 0.03, ClockStep: 0.004}))
	for _, want := range []string{"wind:", "  source: perlin", "  seed: 3", "  scale: 0.0060", "  clock_step: 0.0040"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
