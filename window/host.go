package window

import (
	"context"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/unravel/camera"
	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/game"
)

// Reset button placement, top-right corner.
const (
	buttonWidth  = 90
	buttonHeight = 28
	buttonMargin = 12
)

// Host runs the simulation in a raylib window on the calling goroutine.
type Host struct {
	cfg *config.Config
	sim *game.Simulation
	cam *camera.Camera

	paused    bool
	debugMode bool
	dragging  bool

	screenWidth, screenHeight int32
}

// Run opens the window and blocks until it is closed or ctx ends.
// raylib requires this to run on the main OS thread.
func Run(ctx context.Context, cfg *config.Config, opts game.Options) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Unravel")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	h := &Host{
		cfg:          cfg,
		cam:          camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
		screenWidth:  int32(rl.GetScreenWidth()),
		screenHeight: int32(rl.GetScreenHeight()),
	}

	opts.Surface = NewSurface()
	opts.Camera = h.cam
	sim, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	h.sim = sim
	defer sim.Close()

	sim.Init(float64(h.screenWidth), float64(h.screenHeight))
	slog.Info("window host ready", "width", h.screenWidth, "height", h.screenHeight)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		h.handleInput()

		rl.BeginDrawing()
		// Tick draws nothing while the mesh is empty
		rl.ClearBackground(rl.RayWhite)
		if h.paused {
			sim.Render()
		} else {
			sim.Tick()
		}
		h.drawOverlay()
		if gui.Button(h.resetBounds(), "Reset") {
			sim.Reset()
		}
		rl.EndDrawing()

		sim.RecordFrame()
	}
	return nil
}

func (h *Host) resetBounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(h.screenWidth - buttonWidth - buttonMargin),
		Y:      buttonMargin,
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

// handleInput processes keyboard and mouse input.
func (h *Host) handleInput() {
	h.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		h.paused = !h.paused
	}
	if rl.IsKeyPressed(rl.KeyD) {
		h.debugMode = !h.debugMode
	}
	if rl.IsKeyPressed(rl.KeyR) {
		h.sim.Reset()
	}

	h.handleCameraInput()
	h.handlePointer()
}

// handleResize rebuilds the mesh when the window size changes.
func (h *Host) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	ht := int32(rl.GetScreenHeight())
	if w == h.screenWidth && ht == h.screenHeight {
		return
	}
	h.screenWidth, h.screenHeight = w, ht
	h.dragging = false
	h.sim.Resize(float64(w), float64(ht))
}

// handleCameraInput processes camera pan/zoom controls.
func (h *Host) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := 8.0 / h.cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		h.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		h.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		h.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		h.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		h.cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		h.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		h.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		h.cam.Reset()
	}
}

// handlePointer forwards the mouse to the simulation in world coordinates.
func (h *Host) handlePointer() {
	mouse := rl.GetMousePosition()
	wx, wy := h.cam.ScreenToWorld(float64(mouse.X), float64(mouse.Y))

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if rl.CheckCollisionPointRec(mouse, h.resetBounds()) {
			return
		}
		h.dragging = true
		h.sim.PointerDown(wx, wy)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft) && h.dragging:
		h.dragging = false
		h.sim.PointerMove(wx, wy)
		h.sim.PointerUp()
	default:
		h.sim.PointerMove(wx, wy)
	}
}
