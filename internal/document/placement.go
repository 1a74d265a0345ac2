package document

import (
	"math/rand"

	"github.com/montagehq/montage/backend-go/internal/geometry"
)

const (
	// placementFraction is the share of each canvas dimension a freshly
	// uploaded layer is scaled to fit inside, preserving the source's
	// aspect ratio.
	placementFraction = 0.4

	// placementMargin keeps the randomized position of a new layer this
	// many canvas units away from the canvas edges.
	placementMargin = 24.0
)

// PlaceNewLayer computes the default size and randomized position for a layer
// created from a source image with the given natural dimensions. The whole
// full box stays inside the canvas bounds minus the margin; the size respects
// the minimum layer dimension.
func PlaceNewLayer(canvasW, canvasH, naturalW, naturalH float64, rng *rand.Rand) (geometry.Point, geometry.Size) {
	if naturalW <= 0 || naturalH <= 0 {
		naturalW, naturalH = 1, 1
	}

	scale := min(canvasW*placementFraction/naturalW, canvasH*placementFraction/naturalH)

	// Respect the size floor on both dimensions, keeping aspect.
	if s := geometry.MinLayerSize / naturalW; s > scale {
		scale = s
	}
	if s := geometry.MinLayerSize / naturalH; s > scale {
		scale = s
	}

	size := geometry.Size{Width: naturalW * scale, Height: naturalH * scale}

	pos := geometry.Point{
		X: randomInRange(placementMargin, canvasW-size.Width-placementMargin, rng),
		Y: randomInRange(placementMargin, canvasH-size.Height-placementMargin, rng),
	}
	return pos, size
}

// randomInRange picks a uniform value in [lo, hi], centering when the layer
// is too large for the range to be valid.
func randomInRange(lo, hi float64, rng *rand.Rand) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}
