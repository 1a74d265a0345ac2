// Package geometry holds the pure math of the canvas editor: layer transforms,
// gesture update functions, crop/size clamping, and 2D affine matrices.
// Everything here is stateless; callers own the layer store and apply the
// returned patches.
package geometry

const (
	// MinLayerSize is the floor for a layer's width and height in canvas
	// units. Resizes and patches never produce a smaller dimension.
	MinLayerSize = 50.0

	// MaxCropInset is the largest inset a single crop edge may reach, in
	// percent of the full box dimension. Together with the opposing-edge
	// clamp this keeps top+bottom and left+right strictly below 100.
	MaxCropInset = 90.0

	// MinVisibleFraction is the safety floor for crop compensation during
	// resize. Below this fraction the compensation factor is not applied,
	// so a nearly fully cropped layer doesn't amplify pointer deltas into
	// huge size jumps. Tunable; not derived from anything.
	MinVisibleFraction = 0.05

	// RotateHandleOffset is added to the raw pointer angle during rotation.
	// The rotate handle sits above the layer, so angle zero must point up
	// from the center rather than to the right.
	RotateHandleOffset = 90.0
)

// Point is a position in canvas-space units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in canvas-space units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Crop holds the four inset percentages hiding parts of a layer's full box.
// Each is in [0, MaxCropInset]; opposing edges never sum to 100 or more.
type Crop struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// VisibleWidthFraction returns the horizontal proportion of the full box not
// hidden by the left/right insets.
func (c Crop) VisibleWidthFraction() float64 {
	return (100 - c.Left - c.Right) / 100
}

// VisibleHeightFraction returns the vertical proportion of the full box not
// hidden by the top/bottom insets.
func (c Crop) VisibleHeightFraction() float64 {
	return (100 - c.Top - c.Bottom) / 100
}

// Clamped returns the crop with every edge forced into its valid range.
// Top and left win ties against their opposing edge, matching the order the
// edges are clamped during a drag.
func (c Crop) Clamped() Crop {
	c.Top = clamp(c.Top, 0, MaxCropInset)
	c.Left = clamp(c.Left, 0, MaxCropInset)
	c.Bottom = clamp(c.Bottom, 0, MaxCropInset-c.Top)
	c.Right = clamp(c.Right, 0, MaxCropInset-c.Left)
	return c
}

// Snapshot is a layer's frozen transform state, captured once at gesture
// start. All delta math during a drag is relative to the snapshot, never to
// the live layer, so successive pointer-move events don't compound.
type Snapshot struct {
	Position Point
	Size     Size
	Rotation float64
	Crop     Crop
}

// Patch is an immutable description of exactly which transform fields a
// gesture step changed. Nil fields are untouched.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Crop     *Crop    `json:"crop,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Crop == nil
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func f64(v float64) *float64 { return &v }
