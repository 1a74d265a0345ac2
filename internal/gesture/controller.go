// Package gesture owns the drag interaction state machine: which layer is
// selected, which gesture is active, and the frozen snapshot all pointer
// deltas are measured against. It never owns the layer store; it reports
// selection and patch intents through callbacks.
package gesture

import "github.com/montagehq/montage/backend-go/internal/geometry"

// Callbacks are the controller's outputs. SelectLayer receives "" on
// deselect. UpdateLayer carries an immutable patch for one gesture step; the
// state owner applies it atomically.
type Callbacks struct {
	SelectLayer func(id string)
	UpdateLayer func(id string, patch geometry.Patch)
}

// Controller runs the idle → <mode> → idle state machine. It is purely
// reactive: every method runs to completion on the UI event thread before the
// next event is handled, so no two gesture steps ever race.
type Controller struct {
	stream Stream
	scale  func() float64
	origin func() (x, y float64)
	cb     Callbacks

	mode     Mode
	layerID  string
	selected string
	snap     geometry.Snapshot
	startX   float64
	startY   float64
	cancel   func()
}

// NewController wires the controller to a pointer stream, a live scale
// factor, and the canvas's on-screen origin (needed to project the rotation
// pivot into screen space).
func NewController(stream Stream, scale func() float64, origin func() (float64, float64), cb Callbacks) *Controller {
	return &Controller{
		stream: stream,
		scale:  scale,
		origin: origin,
		cb:     cb,
	}
}

// Mode returns the active gesture mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Selected returns the selected layer id, or "" when none.
func (c *Controller) Selected() string {
	return c.selected
}

// Begin starts a gesture on pointer-down over a layer handle. The layer
// becomes selected (deselecting any previous) and its transform is captured
// as the snapshot for the whole drag. Ignored while another gesture is
// active or for ModeIdle.
func (c *Controller) Begin(mode Mode, layerID string, snap geometry.Snapshot, ev PointerEvent) {
	if c.mode != ModeIdle || mode == ModeIdle {
		return
	}

	c.setSelection(layerID)

	c.mode = mode
	c.layerID = layerID
	c.snap = snap
	c.startX = ev.X
	c.startY = ev.Y
	c.cancel = c.stream.Subscribe(c.handleMove, c.handleUp)
}

// PressBackground handles pointer-down on the canvas background: while idle
// it deselects the current layer. Not an error; there is no invalid gesture
// target.
func (c *Controller) PressBackground() {
	if c.mode != ModeIdle {
		return
	}
	c.setSelection("")
}

// Select changes the selection outside of a gesture (e.g. a newly created
// layer becomes selected, or a removed layer clears it).
func (c *Controller) Select(id string) {
	c.setSelection(id)
}

// Teardown cancels any in-flight gesture and removes the stream listeners.
// Used when the editor unmounts without receiving pointer-up.
func (c *Controller) Teardown() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mode = ModeIdle
	c.layerID = ""
}

func (c *Controller) handleMove(ev PointerEvent) {
	scale := c.scale()
	if scale <= 0 {
		scale = 1
	}
	dx := (ev.X - c.startX) / scale
	dy := (ev.Y - c.startY) / scale

	var patch geometry.Patch
	switch {
	case c.mode == ModeTranslate:
		patch = geometry.Translate(c.snap, dx, dy)
	case c.mode == ModeRotate:
		ox, oy := c.origin()
		patch = geometry.Rotate(c.snap, ox, oy, scale, ev.X, ev.Y)
	default:
		if corner, ok := c.mode.corner(); ok {
			patch = geometry.Resize(c.snap, corner, dx)
		} else if edge, ok := c.mode.edge(); ok {
			patch = geometry.CropEdge(c.snap, edge, dx, dy)
		}
	}

	if !patch.IsZero() && c.cb.UpdateLayer != nil {
		c.cb.UpdateLayer(c.layerID, patch)
	}
}

func (c *Controller) handleUp(PointerEvent) {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mode = ModeIdle
	c.layerID = ""
	// Selection survives the gesture; the snapshot does not.
	c.snap = geometry.Snapshot{}
}

func (c *Controller) setSelection(id string) {
	if c.selected == id {
		return
	}
	c.selected = id
	if c.cb.SelectLayer != nil {
		c.cb.SelectLayer(id)
	}
}
