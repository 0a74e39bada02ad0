package game

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DragScript stands in for a user in unattended runs: it presses at the
// container centre, pulls straight down, holds, then lets go.
type DragScript struct {
	Press    int32   // Tick the press lands on
	Pull     int32   // Ticks spent pulling
	Hold     int32   // Ticks held at full distance before release
	Distance float64 // Pull distance below the press point
}

// DefaultDragScript pulls the centre of a default-sized mesh well past the
// unpin threshold and holds it there for two seconds.
func DefaultDragScript() DragScript {
	return DragScript{Press: 30, Pull: 60, Hold: 120, Distance: 200}
}

// At returns the event scheduled for tick in a w x h container, if any.
func (d DragScript) At(tick int32, w, h float64) (Event, bool) {
	cx, cy := w/2, h/2
	switch {
	case tick == d.Press:
		return Event{Kind: EventPointerDown, X: cx, Y: cy}, true
	case tick > d.Press && tick <= d.Press+d.Pull:
		progress := 1.0
		if d.Pull > 0 {
			progress = float64(tick-d.Press) / float64(d.Pull)
		}
		return Event{Kind: EventPointerMove, X: cx, Y: cy + d.Distance*progress}, true
	case tick == d.Press+d.Pull+d.Hold:
		return Event{Kind: EventPointerUp}, true
	}
	return Event{}, false
}

// End returns the tick of the release.
func (d DragScript) End() int32 {
	return d.Press + d.Pull + d.Hold
}

// Snapshotter writes a rendered frame to path.
type Snapshotter interface {
	WritePNG(path string) error
}

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	MaxTicks int32       // 0 runs until ctx is cancelled
	Script   *DragScript // Optional scripted pointer

	Snapshots     Snapshotter // Surface the simulation renders into
	SnapshotDir   string
	SnapshotEvery int32
}

// RunHeadless ticks sim without a display until MaxTicks or ctx ends.
// The simulation must already be initialised.
func RunHeadless(ctx context.Context, sim *Simulation, opts HeadlessOptions) error {
	snapshots := opts.Snapshots != nil && opts.SnapshotDir != "" && opts.SnapshotEvery > 0
	if snapshots {
		if err := os.MkdirAll(opts.SnapshotDir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	st := sim.Status()
	for tick := int32(0); opts.MaxTicks == 0 || tick < opts.MaxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			slog.Info("headless run interrupted", "tick", tick)
			return nil
		}

		if opts.Script != nil {
			if ev, ok := opts.Script.At(tick, st.Width, st.Height); ok {
				sim.Apply(ev)
			}
		}
		sim.Tick()

		if snapshots && (tick+1)%opts.SnapshotEvery == 0 {
			path := filepath.Join(opts.SnapshotDir, fmt.Sprintf("frame_%06d.png", tick+1))
			if err := opts.Snapshots.WritePNG(path); err != nil {
				return err
			}
		}
	}
	return nil
}
