package engine

import (
	"github.com/montagehq/montage/backend-go/internal/gesture"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// HitResult names what a pointer-down landed on. A zero result means the
// canvas background.
type HitResult struct {
	LayerID string     `json:"layerId"`
	Handle  HandleKind `json:"handle"`
}

// HitTest resolves a screen point to an editing affordance. The selected
// layer's grips win over layer bodies; bodies are tested front to back
// against the visible (cropped) region, inverse-rotated into layer space.
func (e *Editor) HitTest(x, y float64) HitResult {
	if e.selection != "" {
		if l := e.comp.Layer(e.selection); l != nil {
			scale := e.resolver.Scale()
			originX, originY := e.resolver.Origin()
			for _, h := range layerHandles(l, scale, originX, originY) {
				box := geometry.Rect{X: h.X, Y: h.Y, Width: h.Width, Height: h.Height}
				if box.Contains(x, y) {
					return HitResult{LayerID: l.ID, Handle: h.Kind}
				}
			}
		}
	}

	scale := e.resolver.Scale()
	if scale <= 0 {
		scale = 1
	}
	originX, originY := e.resolver.Origin()
	canvasX := (x - originX) / scale
	canvasY := (y - originY) / scale

	for i := len(e.comp.Layers) - 1; i >= 0; i-- {
		l := &e.comp.Layers[i]
		snap := l.Snapshot()
		localX, localY := geometry.LayerMatrix(snap).Invert().TransformPoint(canvasX, canvasY)
		if visibleRect(snap).Contains(localX, localY) {
			return HitResult{LayerID: l.ID, Handle: HandleBody}
		}
	}

	return HitResult{}
}

// modeForHandle maps a hit affordance to the gesture it starts.
func modeForHandle(h HandleKind) gesture.Mode {
	switch h {
	case HandleBody:
		return gesture.ModeTranslate
	case HandleRotate:
		return gesture.ModeRotate
	case HandleResizeTopLeft:
		return gesture.ModeResizeTopLeft
	case HandleResizeTopRight:
		return gesture.ModeResizeTopRight
	case HandleResizeBottomLeft:
		return gesture.ModeResizeBottomLeft
	case HandleResizeBottomRight:
		return gesture.ModeResizeBottomRight
	case HandleCropTop:
		return gesture.ModeCropTop
	case HandleCropBottom:
		return gesture.ModeCropBottom
	case HandleCropLeft:
		return gesture.ModeCropLeft
	case HandleCropRight:
		return gesture.ModeCropRight
	}
	return gesture.ModeIdle
}
