// Package telemetry tracks how the fabric tears over time and how long each
// part of a tick takes, with CSV output for offline analysis.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	Clock           float64 `csv:"clock"`

	// Mesh state at window end
	Particles    int     `csv:"particles"`
	LiveSprings  int     `csv:"live_springs"`
	TornFraction float64 `csv:"torn_fraction"`
	FreeCount    int     `csv:"free"`

	// Events during window
	Broken   int `csv:"broken"`
	Unpinned int `csv:"unpinned"`
	Drags    int `csv:"drags"`
	Resets   int `csv:"resets"`

	// Stretch ratio distribution over live springs (sampled at window end)
	StretchMean float64 `csv:"stretch_mean"`
	StretchStd  float64 `csv:"stretch_std"`
	StretchP50  float64 `csv:"stretch_p50"`
	StretchP90  float64 `csv:"stretch_p90"`
	StretchMax  float64 `csv:"stretch_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// StretchSummary describes a set of stretch ratios.
type StretchSummary struct {
	Mean, Std     float64
	P50, P90, Max float64
}

// ComputeStretchStats calculates mean, std, and percentiles from stretch ratios.
// values is not modified.
func ComputeStretchStats(values []float64) StretchSummary {
	n := len(values)
	if n == 0 {
		return StretchSummary{}
	}

	var s StretchSummary
	if n == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	s.Max = sorted[n-1]
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("clock", s.Clock),
		slog.Int("particles", s.Particles),
		slog.Int("live_springs", s.LiveSprings),
		slog.Float64("torn_fraction", s.TornFraction),
		slog.Int("free", s.FreeCount),
		slog.Int("broken", s.Broken),
		slog.Int("unpinned", s.Unpinned),
		slog.Int("drags", s.Drags),
		slog.Int("resets", s.Resets),
		slog.Float64("stretch_mean", s.StretchMean),
		slog.Float64("stretch_std", s.StretchStd),
		slog.Float64("stretch_p50", s.StretchP50),
		slog.Float64("stretch_p90", s.StretchP90),
		slog.Float64("stretch_max", s.StretchMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"live_springs", s.LiveSprings,
		"torn_fraction", s.TornFraction,
		"free", s.FreeCount,
		"broken", s.Broken,
		"unpinned", s.Unpinned,
		"drags", s.Drags,
		"stretch_mean", s.StretchMean,
		"stretch_p90", s.StretchP90,
	)
}
