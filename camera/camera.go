// Package camera maps between world coordinates and drawing-surface
// coordinates.
package camera

// Camera controls the viewport into the simulation world.
// Surfaces whose units are not square (terminal cells) use ScaleX != ScaleY.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Surface units per world unit along each axis
	ScaleX, ScaleY float64

	// Viewport dimensions in surface units
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera with square 1:1 scaling centred on the viewport, so
// world and surface coordinates coincide.
func New(viewportW, viewportH float64) *Camera {
	return NewScaled(viewportW, viewportH, 1, 1)
}

// NewScaled creates a camera whose world units map to scaleX by scaleY
// surface units, centred so world origin maps to surface origin.
func NewScaled(viewportW, viewportH, scaleX, scaleY float64) *Camera {
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	c := &Camera{
		Zoom:      1.0,
		ScaleX:    scaleX,
		ScaleY:    scaleY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   4.0,
	}
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to surface coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom*c.ScaleX
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom*c.ScaleY
	return sx, sy
}

// ScreenToWorld converts surface coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = c.X + (sx-c.ViewportW/2)/(c.Zoom*c.ScaleX)
	wy = c.Y + (sy-c.ViewportH/2)/(c.Zoom*c.ScaleY)
	return wx, wy
}

// WorldSize returns the world extent covered by the viewport at zoom 1.
// Hosts use it as the container size handed to the simulation.
func (c *Camera) WorldSize() (w, h float64) {
	return c.ViewportW / c.ScaleX, c.ViewportH / c.ScaleY
}

// IsVisible reports whether (wx, wy) lies within margin world units of the
// visible area (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, margin float64) bool {
	halfW := c.ViewportW/(2*c.Zoom*c.ScaleX) + margin
	halfH := c.ViewportH/(2*c.Zoom*c.ScaleY) + margin
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recentres on the new world extent.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.Reset()
}

// Pan moves the camera by the given delta in surface units.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / (c.Zoom * c.ScaleX)
	c.Y += dy / (c.Zoom * c.ScaleY)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	w, h := c.WorldSize()
	c.X = w / 2
	c.Y = h / 2
	c.Zoom = 1.0
}

// absf returns the absolute value of x.
func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
