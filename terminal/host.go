package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/unravel/camera"
	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/game"
)

// Host connects a tcell screen to a simulation.
type Host struct {
	screen tcell.Screen
	cfg    *config.Config
	sim    *game.Simulation
	sched  *game.Scheduler

	// cam is only touched by the poll goroutine for coordinate mapping;
	// drawing uses the simulation's own camera.
	cam     *camera.Camera
	pressed bool
}

// Run opens the terminal and runs until the user quits or ctx ends.
func Run(ctx context.Context, cfg *config.Config, opts game.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	defer screen.Fini()

	h, err := NewHost(screen, cfg, opts)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}

// NewHost builds a simulation sized to screen. The screen must be initialised.
func NewHost(screen tcell.Screen, cfg *config.Config, opts game.Options) (*Host, error) {
	termCfg := *cfg
	if cfg.Terminal.Spacing > 0 {
		termCfg.Mesh.Spacing = cfg.Terminal.Spacing
	}

	h := &Host{screen: screen, cfg: &termCfg}
	cols, rows := screen.Size()
	h.cam = h.newCamera(cols, rows)

	opts.Surface = NewSurface(screen)
	opts.Camera = h.newCamera(cols, rows)
	sim, err := game.New(h.cfg, opts)
	if err != nil {
		return nil, err
	}
	h.sim = sim

	w, ht := h.cam.WorldSize()
	sim.Init(w, ht)
	slog.Info("terminal host ready", "cols", cols, "rows", rows)
	return h, nil
}

func (h *Host) newCamera(cols, rows int) *camera.Camera {
	return camera.NewScaled(float64(cols), float64(rows),
		1/h.cfg.Terminal.CellWidth, 1/h.cfg.Terminal.CellHeight)
}

// Simulation returns the hosted simulation.
func (h *Host) Simulation() *game.Simulation {
	return h.sim
}

// Run starts the frame loop and the input poller and blocks until quit.
func (h *Host) Run(ctx context.Context) error {
	h.sched = game.NewScheduler(h.sim, h.cfg.Terminal.TargetFPS, h)
	h.sched.Start(ctx)
	h.sched.Go(h.poll)
	h.sched.Go(h.interruptOnDone)
	return h.sched.Wait()
}

// Present shows the frame drawn by the last tick.
func (h *Host) Present() {
	h.screen.Show()
}

// poll forwards terminal input to the scheduler until ctx ends or the
// screen is finalised.
func (h *Host) poll(ctx context.Context) error {
	for {
		ev := h.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		out, quit := h.translate(ev)
		if quit {
			h.sched.Quit()
			return nil
		}
		for _, e := range out {
			if !h.sched.Send(e) {
				return nil
			}
		}
	}
}

// interruptOnDone wakes the poller once ctx ends.
func (h *Host) interruptOnDone(ctx context.Context) error {
	<-ctx.Done()
	// A full queue means the poller is already awake.
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	return nil
}

// translate maps a terminal event onto simulation events. quit reports a
// request to exit.
func (h *Host) translate(ev tcell.Event) (out []game.Event, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		return h.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0), false
	case *tcell.EventResize:
		h.screen.Sync()
		cols, rows := ev.Size()
		return h.handleResize(cols, rows), false
	}
	return nil, false
}

func (h *Host) handleKey(key tcell.Key, r rune) ([]game.Event, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return nil, true
		case 'r', 'R':
			return []game.Event{{Kind: game.EventReset}}, false
		}
	}
	return nil, false
}

func (h *Host) handleMouse(col, row int, down bool) []game.Event {
	wx, wy := h.cam.ScreenToWorld(float64(col), float64(row))
	switch {
	case down && !h.pressed:
		h.pressed = true
		return []game.Event{{Kind: game.EventPointerDown, X: wx, Y: wy}}
	case !down && h.pressed:
		h.pressed = false
		return []game.Event{
			{Kind: game.EventPointerMove, X: wx, Y: wy},
			{Kind: game.EventPointerUp},
		}
	}
	return []game.Event{{Kind: game.EventPointerMove, X: wx, Y: wy}}
}

func (h *Host) handleResize(cols, rows int) []game.Event {
	h.cam.Resize(float64(cols), float64(rows))
	w, ht := h.cam.WorldSize()
	return []game.Event{{Kind: game.EventResize, X: w, Y: ht}}
}
