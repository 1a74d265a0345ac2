package engine

import (
	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

const (
	// HandleScreenSize is the grip hit-target size in screen pixels. Grip
	// boxes are emitted in screen space, which is the inverse-scale trick:
	// in canvas units a grip is HandleScreenSize/scale wide, so it stays a
	// constant, comfortable size at any zoom.
	HandleScreenSize = 12.0

	// RotateHandleGap is the screen-pixel distance between the rotate grip
	// and the top edge of the visible box.
	RotateHandleGap = 28.0
)

// HandleKind identifies an editing affordance on a layer.
type HandleKind string

const (
	HandleNone   HandleKind = ""
	HandleBody   HandleKind = "body"
	HandleRotate HandleKind = "rotate"

	HandleResizeTopLeft     HandleKind = "resize-tl"
	HandleResizeTopRight    HandleKind = "resize-tr"
	HandleResizeBottomLeft  HandleKind = "resize-bl"
	HandleResizeBottomRight HandleKind = "resize-br"

	HandleCropTop    HandleKind = "crop-top"
	HandleCropBottom HandleKind = "crop-bottom"
	HandleCropLeft   HandleKind = "crop-left"
	HandleCropRight  HandleKind = "crop-right"
)

// Handle is a grip's axis-aligned hit box in screen pixels, centered on the
// grip's (rotated) position.
type Handle struct {
	Kind   HandleKind `json:"kind"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
}

// LayerBox is a layer's render projection: the concrete on-screen box,
// rotation pivot, clip insets, and (for the selected layer) its grips.
type LayerBox struct {
	ID       string `json:"id"`
	ZIndex   int    `json:"zIndex"`
	AssetID  string `json:"assetId"`
	Selected bool   `json:"selected"`

	// Full box in screen pixels, before rotation.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Rotation in degrees about the transform origin.
	Rotation float64 `json:"rotation"`

	// Transform origin as percentages of the full box: the visual center
	// of the cropped region, not the box center.
	OriginXPct float64 `json:"originXPct"`
	OriginYPct float64 `json:"originYPct"`

	// Clip insets in percent, applied directly from the crop.
	Clip geometry.Crop `json:"clip"`

	Mirrored  bool     `json:"mirrored"`
	StyleName string   `json:"styleName,omitempty"`
	Handles   []Handle `json:"handles,omitempty"`
}

// ProjectLayers maps every layer's transform and crop into screen space, in
// paint order. Only the selected layer carries handles.
func (e *Editor) ProjectLayers() []LayerBox {
	scale := e.resolver.Scale()
	originX, originY := e.resolver.Origin()

	boxes := make([]LayerBox, 0, len(e.comp.Layers))
	for i := range e.comp.Layers {
		l := &e.comp.Layers[i]

		box := LayerBox{
			ID:         l.ID,
			ZIndex:     l.ZIndex,
			AssetID:    l.DisplayAssetID(),
			Selected:   l.ID == e.selection,
			X:          originX + l.Position.X*scale,
			Y:          originY + l.Position.Y*scale,
			Width:      l.Size.Width * scale,
			Height:     l.Size.Height * scale,
			Rotation:   l.Rotation,
			OriginXPct: l.Crop.Left + (100-l.Crop.Left-l.Crop.Right)/2,
			OriginYPct: l.Crop.Top + (100-l.Crop.Top-l.Crop.Bottom)/2,
			Clip:       l.Crop,
			Mirrored:   l.Mirrored,
			StyleName:  l.StyleName,
		}
		if box.Selected {
			box.Handles = layerHandles(l, scale, originX, originY)
		}
		boxes = append(boxes, box)
	}
	return boxes
}

// visibleRect returns the uncropped sub-rectangle in layer-local units.
func visibleRect(s geometry.Snapshot) geometry.Rect {
	return geometry.Rect{
		X:      s.Size.Width * s.Crop.Left / 100,
		Y:      s.Size.Height * s.Crop.Top / 100,
		Width:  s.Size.Width * s.Crop.VisibleWidthFraction(),
		Height: s.Size.Height * s.Crop.VisibleHeightFraction(),
	}
}

// layerHandles computes grip hit boxes in screen pixels. Grip centers sit on
// the visible box's corners and edge midpoints (plus the rotate grip above
// the top edge) and rotate with the layer; the boxes stay axis-aligned.
func layerHandles(l *document.Layer, scale, originX, originY float64) []Handle {
	snap := l.Snapshot()
	vis := visibleRect(snap)
	m := geometry.LayerMatrix(snap)

	gap := RotateHandleGap
	if scale > 0 {
		gap = RotateHandleGap / scale
	}

	centers := []struct {
		kind HandleKind
		x, y float64
	}{
		{HandleRotate, vis.X + vis.Width/2, vis.Y - gap},
		{HandleResizeTopLeft, vis.X, vis.Y},
		{HandleResizeTopRight, vis.X + vis.Width, vis.Y},
		{HandleResizeBottomLeft, vis.X, vis.Y + vis.Height},
		{HandleResizeBottomRight, vis.X + vis.Width, vis.Y + vis.Height},
		{HandleCropTop, vis.X + vis.Width/2, vis.Y},
		{HandleCropBottom, vis.X + vis.Width/2, vis.Y + vis.Height},
		{HandleCropLeft, vis.X, vis.Y + vis.Height/2},
		{HandleCropRight, vis.X + vis.Width, vis.Y + vis.Height/2},
	}

	handles := make([]Handle, 0, len(centers))
	for _, c := range centers {
		cx, cy := m.TransformPoint(c.x, c.y)
		handles = append(handles, Handle{
			Kind:   c.kind,
			X:      originX + cx*scale - HandleScreenSize/2,
			Y:      originY + cy*scale - HandleScreenSize/2,
			Width:  HandleScreenSize,
			Height: HandleScreenSize,
		})
	}
	return handles
}
