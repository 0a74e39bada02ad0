package window

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/unravel/game"
	"github.com/pthm-cable/unravel/telemetry"
)

// drawOverlay draws the HUD and, in debug mode, the stats panel.
func (h *Host) drawOverlay() {
	st := h.sim.Status()

	for i, line := range hudLines(st, h.paused) {
		rl.DrawText(line, 10, int32(10+i*22), 18, rl.DarkGray)
	}

	if h.debugMode {
		h.drawDebugPanel(st)
	}
}

func (h *Host) drawDebugPanel(st game.Status) {
	lines := debugLines(st)

	panelW := int32(300)
	panelH := int32(40 + len(lines)*18)
	panelX := int32(10)
	panelY := h.screenHeight - panelH - 10

	rl.DrawRectangle(panelX, panelY, panelW, panelH, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawRectangleLines(panelX, panelY, panelW, panelH, rl.Yellow)
	rl.DrawText("DEBUG [D to close]", panelX+10, panelY+8, 14, rl.Yellow)

	for i, line := range lines {
		rl.DrawText(line, panelX+10, panelY+30+int32(i*18), 12, rl.White)
	}
}

// hudLines returns the always-visible status text.
func hudLines(st game.Status, paused bool) []string {
	lines := []string{
		fmt.Sprintf("Tick: %d  Springs: %d  Torn: %.1f%%", st.Tick, st.Springs, st.TornFraction*100),
		"[drag] pull  [R] reset  [Space] pause  [D] debug",
	}
	if paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}

// debugLines returns the debug panel text: mesh state, last stats window and
// per-phase timing.
func debugLines(st game.Status) []string {
	lines := []string{
		fmt.Sprintf("Particles: %d  Free: %d  Dragging: %v", st.Particles, st.Free, st.Dragging),
		fmt.Sprintf("Window @%d  broken %d  unpinned %d", st.Stats.WindowEndTick, st.Stats.Broken, st.Stats.Unpinned),
		fmt.Sprintf("Stretch mean %.2f  p90 %.2f  max %.2f", st.Stats.StretchMean, st.Stats.StretchP90, st.Stats.StretchMax),
		fmt.Sprintf("Tick: %v  TPS: %.0f  FPS: %.0f", st.Perf.AvgTickDuration, st.Perf.TicksPerSecond, st.Perf.FPS),
	}
	for _, phase := range telemetry.Phases {
		if pct, ok := st.Perf.PhasePct[phase]; ok {
			lines = append(lines, fmt.Sprintf("  %-10s %5.1f%%", phase, pct))
		}
	}
	return lines
}
