package game

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/unravel/components"
	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/renderer"
)

// testConfig returns defaults with a 5x5 mesh at spacing 10.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Mesh.Cols = 5
	cfg.Mesh.Rows = 5
	cfg.Mesh.Spacing = 10
	return cfg
}

func newTestSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	sim, err := New(testConfig(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sim
}

func copyParticles(ps []components.Particle) []components.Particle {
	out := make([]components.Particle, len(ps))
	copy(out, ps)
	return out
}

// ---------- Lifecycle ----------

func TestNew_InvalidWindSource(t *testing.T) {
	cfg := testConfig()
	cfg.Wind.Source = "fractal"
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for unknown wind source")
	}
}

func TestInit_BuildsCentredMesh(t *testing.T) {
	sim := newTestSim(t, Options{Seed: 1})
	sim.Init(400, 400)

	st := sim.Status()
	if st.Particles != 25 || st.Springs != 40 {
		t.Fatalf("particles/springs = %d/%d, want 25/40", st.Particles, st.Springs)
	}
	centre := sim.mesh.Particles[sim.mesh.Index(2, 2)]
	if centre.X != 200 || centre.Y != 200 {
		t.Errorf("centre particle at (%v, %v), want (200, 200)", centre.X, centre.Y)
	}
}

func TestEndToEnd_DragPullsCentreDown(t *testing.T) {
	sim := newTestSim(t, Options{Seed: 3})
	sim.Init(400, 400)

	centre := sim.mesh.Index(2, 2)
	startY := sim.mesh.Particles[centre].Y
	before := copyParticles(sim.mesh.Particles)

	sim.PointerDown(200, 200)
	sim.PointerMove(200, 400)
	// 25 ticks x 4 sub-steps
	for i := 0; i < 25; i++ {
		sim.Tick()
	}

	p := sim.mesh.Particles[centre]
	if p.Pinned {
		t.Error("dragged centre particle should be unpinned")
	}
	if p.Y <= startY {
		t.Errorf("centre y = %v, want below start %v", p.Y, startY)
	}
	for i, q := range sim.mesh.Particles {
		if !q.Edge {
			continue
		}
		if q != before[i] {
			t.Errorf("edge particle %d changed: %+v -> %+v", i, before[i], q)
		}
	}
	if got := sim.Status().Tick; got != 25 {
		t.Errorf("tick = %d, want 25", got)
	}
}

func TestReset_Idempotent(t *testing.T) {
	sim := newTestSim(t, Options{Seed: 5})
	sim.Init(400, 400)

	sim.PointerDown(200, 200)
	sim.PointerMove(200, 350)
	for i := 0; i < 10; i++ {
		sim.Tick()
	}

	sim.Reset()
	first := copyParticles(sim.mesh.Particles)
	firstSprings := append([]components.Spring(nil), sim.mesh.Springs...)

	sim.Reset()
	if sim.mesh.Dragged != components.NoParticle {
		t.Error("reset should clear the drag")
	}
	if sim.mesh.Clock != 0 {
		t.Errorf("clock = %v after reset, want 0", sim.mesh.Clock)
	}
	for i := range first {
		if sim.mesh.Particles[i] != first[i] {
			t.Fatalf("particle %d differs between resets", i)
		}
	}
	if len(sim.mesh.Springs) != len(firstSprings) {
		t.Fatalf("spring count differs between resets: %d vs %d", len(sim.mesh.Springs), len(firstSprings))
	}
	for i := range firstSprings {
		if sim.mesh.Springs[i] != firstSprings[i] {
			t.Fatalf("spring %d differs between resets", i)
		}
	}
}

func TestResize_Rebuilds(t *testing.T) {
	sim := newTestSim(t, Options{})
	sim.Init(400, 400)
	sim.PointerDown(200, 200)

	sim.Resize(800, 600)

	if sim.mesh.Dragged != components.NoParticle {
		t.Error("resize should drop the drag")
	}
	centre := sim.mesh.Particles[sim.mesh.Index(2, 2)]
	if centre.X != 400 || centre.Y != 300 {
		t.Errorf("centre at (%v, %v) after resize, want (400, 300)", centre.X, centre.Y)
	}
	if cam := sim.Camera(); cam.ViewportW != 800 || cam.ViewportH != 600 {
		t.Errorf("camera viewport = %vx%v, want 800x600", cam.ViewportW, cam.ViewportH)
	}
}

func TestZeroSize_RecoversOnResize(t *testing.T) {
	sim := newTestSim(t, Options{Surface: renderer.NewImageSurface(10, 10)})
	sim.Init(0, 0)

	sim.Tick()
	sim.PointerDown(1, 1)
	sim.PointerUp()
	sim.Reset()

	if st := sim.Status(); st.Particles != 0 || st.Tick != 0 {
		t.Fatalf("empty simulation ticked or built: %+v", st)
	}

	sim.Resize(400, 400)
	sim.Tick()
	if st := sim.Status(); st.Particles != 25 || st.Tick != 1 {
		t.Errorf("after resize: particles %d tick %d, want 25 and 1", st.Particles, st.Tick)
	}
}

func TestClose_StopsTicks(t *testing.T) {
	sim := newTestSim(t, Options{})
	sim.Init(400, 400)
	sim.Tick()

	sim.Close()
	sim.Tick()
	sim.PointerDown(200, 200)
	sim.Reset()
	sim.Close()

	st := sim.Status()
	if !st.Closed {
		t.Error("status should report closed")
	}
	if st.Tick != 1 {
		t.Errorf("tick = %d after close, want 1", st.Tick)
	}
	if st.Particles != 0 {
		t.Error("mesh should be released on close")
	}
}

// ---------- Rendering ----------

func TestTick_RendersOneFrame(t *testing.T) {
	surf := renderer.NewImageSurface(400, 400)
	sim := newTestSim(t, Options{Seed: 1, Surface: surf})
	sim.Init(400, 400)
	sim.Tick()

	bg := testConfig().Render.Background
	img := surf.Image()
	drawn := false
	for y := 180; y <= 220 && !drawn; y++ {
		for x := 180; x <= 220; x++ {
			if img.RGBAAt(x, y).R != bg {
				drawn = true
				break
			}
		}
	}
	if !drawn {
		t.Error("expected glyphs around the mesh centre")
	}
}

// ---------- Scheduler ----------

type countingPresenter struct {
	frames atomic.Int32
}

func (p *countingPresenter) Present() { p.frames.Add(1) }

func TestScheduler_TicksAndStops(t *testing.T) {
	sim := newTestSim(t, Options{Seed: 2})
	sim.Init(400, 400)
	present := &countingPresenter{}

	sched := NewScheduler(sim, 500, present)
	sched.Start(context.Background())

	if !sched.Send(Event{Kind: EventPointerDown, X: 200, Y: 200}) {
		t.Fatal("send rejected while running")
	}
	sched.Send(Event{Kind: EventPointerMove, X: 200, Y: 300})

	deadline := time.Now().Add(2 * time.Second)
	for sim.Status().Tick < 5 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	st := sim.Status()
	if st.Tick < 5 {
		t.Errorf("tick = %d, want at least 5", st.Tick)
	}
	if !st.Closed {
		t.Error("Stop should close the simulation")
	}
	if present.frames.Load() < 5 {
		t.Errorf("presented %d frames, want at least 5", present.frames.Load())
	}
	if sched.Send(Event{Kind: EventReset}) {
		t.Error("send should fail after stop")
	}
}

// ---------- Headless ----------

func TestRunHeadless_ScriptAndSnapshots(t *testing.T) {
	surf := renderer.NewImageSurface(400, 400)
	sim := newTestSim(t, Options{Seed: 9, Surface: surf})
	sim.Init(400, 400)

	dir := filepath.Join(t.TempDir(), "frames")
	script := DragScript{Press: 0, Pull: 5, Hold: 5, Distance: 50}
	err := RunHeadless(context.Background(), sim, HeadlessOptions{
		MaxTicks:      20,
		Script:        &script,
		Snapshots:     surf,
		SnapshotDir:   dir,
		SnapshotEvery: 10,
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}

	if st := sim.Status(); st.Tick != 20 || st.Dragging {
		t.Errorf("tick %d dragging %v, want 20 and released", st.Tick, st.Dragging)
	}
	if sim.mesh.FreeCount() == 0 {
		t.Error("scripted drag should have freed particles")
	}
	for _, name := range []string{"frame_000010.png", "frame_000020.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing snapshot %s: %v", name, err)
		}
	}
}

func TestRunHeadless_Cancelled(t *testing.T) {
	sim := newTestSim(t, Options{})
	sim.Init(400, 400)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RunHeadless(ctx, sim, HeadlessOptions{}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if st := sim.Status(); st.Tick != 0 {
		t.Errorf("tick = %d, want 0 for a cancelled run", st.Tick)
	}
}

func TestDragScript_At(t *testing.T) {
	d := DragScript{Press: 2, Pull: 4, Hold: 3, Distance: 40}

	tests := []struct {
		tick int32
		ok   bool
		kind EventKind
		y    float64
	}{
		{0, false, 0, 0},
		{2, true, EventPointerDown, 50},
		{3, true, EventPointerMove, 60},
		{6, true, EventPointerMove, 90},
		{7, false, 0, 0},
		{9, true, EventPointerUp, 0},
		{10, false, 0, 0},
	}

	for _, tt := range tests {
		ev, ok := d.At(tt.tick, 100, 100)
		if ok != tt.ok {
			t.Errorf("tick %d: ok = %v, want %v", tt.tick, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if ev.Kind != tt.kind {
			t.Errorf("tick %d: kind = %v, want %v", tt.tick, ev.Kind, tt.kind)
		}
		if tt.kind != EventPointerUp && ev.Y != tt.y {
			t.Errorf("tick %d: y = %v, want %v", tt.tick, ev.Y, tt.y)
		}
	}
	if d.End() != 9 {
		t.Errorf("End = %d, want 9", d.End())
	}
}
