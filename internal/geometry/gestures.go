package geometry

import "math"

// Corner identifies which resize grip is being dragged.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Edge identifies which crop grip is being dragged.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Translate moves the layer by a canvas-space delta. No other field changes.
func Translate(s Snapshot, dx, dy float64) Patch {
	return Patch{
		X: f64(s.Position.X + dx),
		Y: f64(s.Position.Y + dy),
	}
}

// VisualCenter returns the center of the visible (uncropped) sub-rectangle in
// canvas space. This is the rotation pivot: cropping shifts the pivot away
// from the full box's center.
func VisualCenter(s Snapshot) Point {
	vw := s.Crop.VisibleWidthFraction()
	vh := s.Crop.VisibleHeightFraction()
	return Point{
		X: s.Position.X + s.Size.Width*s.Crop.Left/100 + s.Size.Width*vw/2,
		Y: s.Position.Y + s.Size.Height*s.Crop.Top/100 + s.Size.Height*vh/2,
	}
}

// Rotate computes the new rotation angle from the pointer's screen position.
// originX/originY is the canvas's on-screen top-left corner and scale the
// viewport factor; both are needed to project the crop-adjusted pivot into
// screen space before taking the angle.
func Rotate(s Snapshot, originX, originY, scale, pointerX, pointerY float64) Patch {
	if scale <= 0 {
		scale = 1
	}

	center := VisualCenter(s)
	screenX := originX + center.X*scale
	screenY := originY + center.Y*scale

	deg := math.Atan2(pointerY-screenY, pointerX-screenX) * 180 / math.Pi
	deg += RotateHandleOffset

	return Patch{Rotation: f64(deg)}
}

// Resize scales the full (uncropped) box from one of its four corners,
// preserving the snapshot's aspect ratio. dx is the horizontal canvas-space
// pointer delta; the vertical delta is ignored because height derives from
// the aspect ratio.
//
// The grip sits on the edge of the visible (cropped) region, so the delta is
// amplified by 1/visibleWidthFraction to keep the grip tracking the pointer.
// The amplification is skipped below MinVisibleFraction.
func Resize(s Snapshot, corner Corner, dx float64) Patch {
	w, h := s.Size.Width, s.Size.Height
	if w <= 0 || h <= 0 {
		return Patch{}
	}
	aspect := h / w

	adj := dx
	if frac := s.Crop.VisibleWidthFraction(); frac > MinVisibleFraction {
		adj = dx / frac
	}

	var newW float64
	switch corner {
	case TopLeft, BottomLeft:
		newW = w - adj
	case TopRight, BottomRight:
		newW = w + adj
	}

	// Clamp before deriving position deltas so the anchor corner stays
	// fixed even when the floor activates. The width floor also covers
	// the derived height.
	minW := MinLayerSize
	if hw := MinLayerSize / aspect; hw > minW {
		minW = hw
	}
	if newW < minW {
		newW = minW
	}
	newH := newW * aspect

	p := Patch{Width: f64(newW), Height: f64(newH)}
	switch corner {
	case TopLeft:
		// Bottom-right corner of the full box stays fixed.
		p.X = f64(s.Position.X + (w - newW))
		p.Y = f64(s.Position.Y + (h - newH))
	case TopRight:
		// Bottom edge stays fixed.
		p.Y = f64(s.Position.Y + (h - newH))
	case BottomLeft:
		// Right edge stays fixed.
		p.X = f64(s.Position.X + (w - newW))
	case BottomRight:
		// Position unchanged.
	}
	return p
}

// CropEdge drags one crop inset by a canvas-space delta. The delta converts
// to a percentage of the full box dimension on the relevant axis, then the
// edge clamps against its opposing edge so the pair never reaches a 100%
// total inset. Top and left grow with positive delta; bottom and right are
// measured from the far edge inward, so they shrink with positive delta.
func CropEdge(s Snapshot, edge Edge, dx, dy float64) Patch {
	c := s.Crop

	switch edge {
	case EdgeTop:
		if s.Size.Height <= 0 {
			return Patch{}
		}
		pct := dy / s.Size.Height * 100
		c.Top = clamp(c.Top+pct, 0, MaxCropInset-c.Bottom)
	case EdgeBottom:
		if s.Size.Height <= 0 {
			return Patch{}
		}
		pct := dy / s.Size.Height * 100
		c.Bottom = clamp(c.Bottom-pct, 0, MaxCropInset-c.Top)
	case EdgeLeft:
		if s.Size.Width <= 0 {
			return Patch{}
		}
		pct := dx / s.Size.Width * 100
		c.Left = clamp(c.Left+pct, 0, MaxCropInset-c.Right)
	case EdgeRight:
		if s.Size.Width <= 0 {
			return Patch{}
		}
		pct := dx / s.Size.Width * 100
		c.Right = clamp(c.Right-pct, 0, MaxCropInset-c.Left)
	}

	return Patch{Crop: &c}
}
