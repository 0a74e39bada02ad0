package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	// Should be centered on the world the viewport covers
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenIdentity(t *testing.T) {
	cam := New(1280, 720)

	// Unscaled camera maps world straight onto the surface
	for _, p := range []struct{ x, y float64 }{{0, 0}, {640, 360}, {1200, 50}} {
		sx, sy := cam.WorldToScreen(p.x, p.y)
		if math.Abs(sx-p.x) > 1e-9 || math.Abs(sy-p.y) > 1e-9 {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want identity", p.x, p.y, sx, sy)
		}
	}
}

func TestScaledCells(t *testing.T) {
	// 80x24 terminal, each cell 8x16 world units
	cam := NewScaled(80, 24, 1.0/8, 1.0/16)

	w, h := cam.WorldSize()
	if w != 640 || h != 384 {
		t.Errorf("WorldSize = (%v, %v), want (640, 384)", w, h)
	}

	sx, sy := cam.WorldToScreen(320, 192)
	if math.Abs(sx-40) > 1e-9 || math.Abs(sy-12) > 1e-9 {
		t.Errorf("world centre maps to (%v, %v), want cell (40, 12)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := NewScaled(80, 24, 1.0/8, 1.0/16)
	cam.ZoomBy(1.5)
	cam.Pan(3, -2)

	testCases := []struct{ sx, sy float64 }{
		{40, 12}, // center
		{1, 1},   // top-left
		{79, 23}, // bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 1e-9 || math.Abs(sy-tc.sy) > 1e-9 {
			t.Errorf("roundtrip failed: (%v,%v) -> (%v,%v) -> (%v,%v)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(0.01) // Below min
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0) // Above max
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720)

	if !cam.IsVisible(640, 360, 0) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2000, 1300, 40) {
		t.Error("far point should not be visible")
	}
	// Just outside the surface but inside the margin
	if !cam.IsVisible(-30, 360, 40) {
		t.Error("point within margin should be visible")
	}
	if cam.IsVisible(-50, 360, 40) {
		t.Error("point beyond margin should be culled")
	}
}

func TestResizeRecentres(t *testing.T) {
	cam := New(1280, 720)
	cam.Pan(100, 100)
	cam.Resize(800, 600)

	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected recentre at (400, 300), got (%v, %v)", cam.X, cam.Y)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected position (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
