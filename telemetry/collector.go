package telemetry

import "github.com/pthm-cable/unravel/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	broken   int
	unpinned int
	drags    int
	resets   int

	stretch []float64
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordStep records failures from one tick's sub-steps.
func (c *Collector) RecordStep(s systems.StepStats) {
	c.broken += s.Broken
	c.unpinned += s.Unpinned
}

// RecordDrag records the start of a drag.
func (c *Collector) RecordDrag() {
	c.drags++
}

// RecordReset records a mesh rebuild.
func (c *Collector) RecordReset() {
	c.resets++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush samples the mesh, produces a WindowStats and resets counters for the
// next window.
func (c *Collector) Flush(currentTick int32, m *systems.Mesh) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Broken:   c.broken,
		Unpinned: c.unpinned,
		Drags:    c.drags,
		Resets:   c.resets,
	}

	if !m.Empty() {
		c.stretch = c.stretch[:0]
		for i := range m.Springs {
			c.stretch = append(c.stretch, m.Springs[i].Stretch())
		}
		sum := ComputeStretchStats(c.stretch)

		stats.Clock = m.Clock
		stats.Particles = len(m.Particles)
		stats.LiveSprings = len(m.Springs)
		stats.TornFraction = m.TornFraction()
		stats.FreeCount = m.FreeCount()
		stats.StretchMean = sum.Mean
		stats.StretchStd = sum.Std
		stats.StretchP50 = sum.P50
		stats.StretchP90 = sum.P90
		stats.StretchMax = sum.Max
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.broken = 0
	c.unpinned = 0
	c.drags = 0
	c.resets = 0

	return stats
}
