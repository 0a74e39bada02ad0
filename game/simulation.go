// Package game runs the fabric simulation: it owns the mesh, steps it a fixed
// number of sub-steps per frame, renders it, and serialises pointer input
// against those frames.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pthm-cable/unravel/camera"
	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/renderer"
	"github.com/pthm-cable/unravel/systems"
	"github.com/pthm-cable/unravel/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed int64 // Seed for randomized decisions (ignored when Rand is set)

	// Surface receives one frame per tick. Nil skips rendering.
	Surface renderer.Surface
	// Camera maps world units onto Surface. Nil uses an unscaled camera
	// that follows the container size.
	Camera *camera.Camera

	Output   *telemetry.OutputManager // Optional CSV output
	LogStats bool                     // Log stats and perf every window

	// Rand and Noise override the seeded defaults.
	Rand  systems.Rand
	Noise systems.NoiseSource
}

// Simulation is the frame loop around one mesh.
type Simulation struct {
	mu sync.Mutex

	cfg     *config.Config
	stepper *systems.Stepper
	fabric  *renderer.FabricRenderer
	surface renderer.Surface
	cam     *camera.Camera
	ownCam  bool
	input   InteractionController

	mesh          *systems.Mesh
	width, height float64
	subSteps      int
	tick          int32
	closed        bool

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
	lastStats telemetry.WindowStats
}

// New creates a simulation. Call Init with the container size before Tick.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	noise := opts.Noise
	if noise == nil {
		var err error
		noise, err = systems.NewNoiseSource(cfg.Wind.Source, cfg.Wind.Seed)
		if err != nil {
			return nil, fmt.Errorf("creating wind noise: %w", err)
		}
	}

	return &Simulation{
		cfg:       cfg,
		stepper:   systems.NewStepper(systems.StepParamsFromConfig(cfg), noise, rng),
		fabric:    renderer.NewFabricRenderer(cfg.Render, rng),
		surface:   opts.Surface,
		cam:       opts.Camera,
		ownCam:    opts.Camera == nil,
		input:     NewInteractionController(cfg.Interaction.PickRadius),
		subSteps:  cfg.Physics.SubSteps,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    opts.Output,
		logStats:  opts.LogStats,
	}, nil
}

// Init builds the mesh for a w x h container, discarding any previous mesh,
// clock and drag. A non-positive size leaves the simulation empty.
func (s *Simulation) Init(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.rebuild(w, h)
}

// Resize rebuilds the mesh for a new container size. No state is kept.
func (s *Simulation) Resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	slog.Info("resize", "width", w, "height", h)
	s.rebuild(w, h)
}

// Reset rebuilds the mesh at the current size.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	slog.Info("reset", "tick", s.tick, "torn_fraction", s.tornFraction())
	s.collector.RecordReset()
	s.rebuild(s.width, s.height)
}

func (s *Simulation) rebuild(w, h float64) {
	s.width, s.height = w, h
	if s.ownCam {
		s.cam = camera.New(w, h)
	} else if s.cam != nil {
		s.cam.Resize(w*s.cam.ScaleX, h*s.cam.ScaleY)
	}
	if w <= 0 || h <= 0 {
		s.mesh = nil
		slog.Warn("container has no area, mesh not built", "width", w, "height", h)
		return
	}

	s.mesh = systems.NewMesh(systems.MeshParams{
		Width:     w,
		Height:    h,
		Cols:      s.cfg.Mesh.Cols,
		Rows:      s.cfg.Mesh.Rows,
		Spacing:   s.cfg.Mesh.Spacing,
		Stiffness: s.cfg.Physics.Stiffness,
		Glyphs:    s.cfg.Derived.GlyphRunes,
	})
	slog.Info("mesh built",
		"cols", s.mesh.Cols,
		"rows", s.mesh.Rows,
		"particles", len(s.mesh.Particles),
		"springs", len(s.mesh.Springs),
	)
}

// Tick advances the mesh by the configured number of sub-steps and renders
// one frame. It does nothing once closed or while the mesh is empty.
func (s *Simulation) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.mesh.Empty() {
		return
	}

	s.perf.StartTick()

	ptr := s.input.Pointer()
	var stats systems.StepStats
	for i := 0; i < s.subSteps; i++ {
		stats.Add(s.subStep(ptr))
	}

	if s.surface != nil {
		s.perf.StartPhase(telemetry.PhaseRender)
		s.fabric.Draw(s.surface, s.mesh, s.cam)
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	s.collector.RecordStep(stats)
	if s.collector.ShouldFlush(s.tick) {
		s.flushTelemetry()
	}

	s.perf.EndTick()
}

// subStep runs one physics sub-step in the same order as Stepper.Step,
// timing each phase.
func (s *Simulation) subStep(ptr systems.Pointer) systems.StepStats {
	s.perf.StartPhase(telemetry.PhaseRelax)
	s.stepper.Relax(s.mesh)

	s.perf.StartPhase(telemetry.PhaseFailure)
	stats := s.stepper.Fail(s.mesh, ptr)

	s.perf.StartPhase(telemetry.PhaseIntegrate)
	s.stepper.Integrate(s.mesh, s.height)
	s.stepper.DragOverride(s.mesh, ptr)
	s.stepper.Advance(s.mesh)

	return stats
}

// Render draws the current mesh without stepping it, for paused hosts.
func (s *Simulation) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.surface == nil {
		return
	}
	s.fabric.Draw(s.surface, s.mesh, s.cam)
}

// Close tears the simulation down. A tick already running finishes first;
// no tick runs afterwards.
func (s *Simulation) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.mesh != nil {
		s.flushTelemetry()
	}
	s.mesh = nil
	slog.Info("simulation closed", "tick", s.tick)
}

func (s *Simulation) flushTelemetry() {
	stats := s.collector.Flush(s.tick, s.mesh)
	s.lastStats = stats
	perf := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perf.LogStats()
	}
	if err := s.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perf, s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (s *Simulation) tornFraction() float64 {
	if s.mesh.Empty() {
		return 0
	}
	return s.mesh.TornFraction()
}

// Status is a point-in-time summary for overlays and headless runs.
type Status struct {
	Tick         int32
	Width        float64
	Height       float64
	Particles    int
	Springs      int
	Free         int
	TornFraction float64
	Dragging     bool
	Closed       bool

	Stats telemetry.WindowStats // Last flushed window
	Perf  telemetry.PerfStats
}

// Status returns a summary of the current state.
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Tick:   s.tick,
		Width:  s.width,
		Height: s.height,
		Closed: s.closed,
		Stats:  s.lastStats,
		Perf:   s.perf.Stats(),
	}
	if !s.mesh.Empty() {
		st.Particles = len(s.mesh.Particles)
		st.Springs = len(s.mesh.Springs)
		st.Free = s.mesh.FreeCount()
		st.TornFraction = s.mesh.TornFraction()
		_, st.Dragging = s.mesh.DraggedParticle()
	}
	return st
}

// RecordFrame marks a presented frame for FPS tracking.
func (s *Simulation) RecordFrame() {
	s.mu.Lock()
	s.perf.RecordFrame()
	s.mu.Unlock()
}

// Camera returns the camera frames are drawn through.
func (s *Simulation) Camera() *camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}
