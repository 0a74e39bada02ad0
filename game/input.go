package game

import (
	"github.com/pthm-cable/unravel/systems"
)

// InteractionController turns pointer events into drag state on a mesh and
// remembers the latest pointer position for the failure pass.
type InteractionController struct {
	PickRadius float64

	pointer systems.Pointer
}

// NewInteractionController creates a controller that grabs particles within
// pickRadius of a press.
func NewInteractionController(pickRadius float64) InteractionController {
	return InteractionController{PickRadius: pickRadius}
}

// PointerDown records the position and starts dragging the nearest non-edge
// particle within reach, replacing any current drag. It reports whether a
// particle was grabbed.
func (c *InteractionController) PointerDown(m *systems.Mesh, x, y float64) bool {
	c.PointerMove(x, y)
	if m.Empty() {
		return false
	}
	i, ok := m.Nearest(x, y, c.PickRadius)
	if !ok {
		return false
	}
	return m.Drag(i)
}

// PointerMove records the position only.
func (c *InteractionController) PointerMove(x, y float64) {
	c.pointer = systems.Pointer{X: x, Y: y, Known: true}
}

// PointerUp ends any drag. The released particle stays unpinned.
func (c *InteractionController) PointerUp(m *systems.Mesh) {
	if m.Empty() {
		return
	}
	m.Release()
}

// Pointer returns the latest pointer position.
func (c *InteractionController) Pointer() systems.Pointer {
	return c.pointer
}

// EventKind identifies a host input event.
type EventKind uint8

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventReset
	EventResize // X, Y carry the new width and height
)

func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointer_down"
	case EventPointerMove:
		return "pointer_move"
	case EventPointerUp:
		return "pointer_up"
	case EventReset:
		return "reset"
	case EventResize:
		return "resize"
	}
	return "unknown"
}

// Event is an input event delivered by a host, in world coordinates.
type Event struct {
	Kind EventKind
	X, Y float64
}

// PointerDown handles a press at (x, y).
func (s *Simulation) PointerDown(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.input.PointerDown(s.mesh, x, y) {
		s.collector.RecordDrag()
	}
}

// PointerMove handles pointer motion to (x, y).
func (s *Simulation) PointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.input.PointerMove(x, y)
}

// PointerUp handles a release.
func (s *Simulation) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.input.PointerUp(s.mesh)
}

// Apply dispatches ev to the matching handler.
func (s *Simulation) Apply(ev Event) {
	switch ev.Kind {
	case EventPointerDown:
		s.PointerDown(ev.X, ev.Y)
	case EventPointerMove:
		s.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		s.PointerUp()
	case EventReset:
		s.Reset()
	case EventResize:
		s.Resize(ev.X, ev.Y)
	}
}
