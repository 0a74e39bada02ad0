package systems

import "math"

// Clamp returns v limited to [minVal, maxVal].
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MapRange linearly maps v from [inMin, inMax] to [outMin, outMax], clamped to
// the output interval. Output bounds may be given in either order.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := clamp01((v - inMin) / (inMax - inMin))
	return outMin + t*(outMax-outMin)
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
