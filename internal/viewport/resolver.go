// Package viewport maintains the single scale factor mapping on-screen pixels
// to canvas-space units, using a "fit inside" policy with a fixed padding
// margin. The resolver is notification-driven: the embedding UI reports
// container resizes and background dimension changes explicitly; nothing is
// polled.
package viewport

// DefaultPadding is the margin, in screen pixels, kept between the fitted
// canvas and its container on each axis pair.
const DefaultPadding = 32.0

// FitScale computes the uniform scale that fits the full canvas inside the
// container with the given padding, preserving aspect ratio. It returns 1
// when the canvas or container dimensions are not yet known, so pointer
// deltas always have a usable factor.
func FitScale(containerW, containerH, canvasW, canvasH, padding float64) float64 {
	if canvasW <= 0 || canvasH <= 0 || containerW <= 0 || containerH <= 0 {
		return 1
	}
	scale := min((containerW-padding)/canvasW, (containerH-padding)/canvasH)
	if scale <= 0 {
		return 1
	}
	return scale
}

// Resolver keeps the scale live across container resizes and background
// loads. It is used from the single UI event thread; no locking.
type Resolver struct {
	padding    float64
	containerW float64
	containerH float64
	canvasW    float64
	canvasH    float64

	scale    float64
	onChange []func(scale float64)
}

// NewResolver creates a resolver with the default padding and a scale of 1.
func NewResolver() *Resolver {
	return &Resolver{padding: DefaultPadding, scale: 1}
}

// Scale returns the current scale factor. Always positive; defaults to 1
// before any dimensions are known.
func (r *Resolver) Scale() float64 {
	return r.scale
}

// Origin returns the canvas's on-screen top-left corner: the fitted canvas is
// centered inside the container.
func (r *Resolver) Origin() (float64, float64) {
	if r.containerW <= 0 || r.containerH <= 0 || r.canvasW <= 0 || r.canvasH <= 0 {
		return 0, 0
	}
	return (r.containerW - r.canvasW*r.scale) / 2, (r.containerH - r.canvasH*r.scale) / 2
}

// SetContainerSize records a container resize notification and recomputes.
func (r *Resolver) SetContainerSize(w, h float64) {
	r.containerW, r.containerH = w, h
	r.recompute()
}

// SetCanvasSize records the canvas's logical dimensions (the background's
// natural pixels) and recomputes.
func (r *Resolver) SetCanvasSize(w, h float64) {
	r.canvasW, r.canvasH = w, h
	r.recompute()
}

// OnChange registers a callback invoked whenever the scale value changes.
func (r *Resolver) OnChange(fn func(scale float64)) {
	r.onChange = append(r.onChange, fn)
}

func (r *Resolver) recompute() {
	next := FitScale(r.containerW, r.containerH, r.canvasW, r.canvasH, r.padding)
	if next == r.scale {
		return
	}
	r.scale = next
	for _, fn := range r.onChange {
		fn(next)
	}
}
