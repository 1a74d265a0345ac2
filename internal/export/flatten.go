// Package export flattens a composition into a single PNG on the server.
package export

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// AssetLoader resolves an asset ID to its decoded image.
type AssetLoader interface {
	Load(assetID string) (image.Image, error)
}

// Flatten renders the composition at canvas resolution: background first,
// then layers in ascending z order with their crop, mirror and rotation
// applied. Layers whose asset fails to load are skipped rather than
// failing the whole export.
func Flatten(comp *document.Composition, assets AssetLoader) (*image.RGBA, []string, error) {
	cw, ch := comp.CanvasSize()
	w := int(math.Round(cw))
	h := int(math.Round(ch))
	if w <= 0 || h <= 0 {
		return nil, nil, fmt.Errorf("degenerate canvas size %dx%d", w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if comp.Background != nil && comp.Background.AssetID != "" {
		bg, err := assets.Load(comp.Background.AssetID)
		if err != nil {
			return nil, nil, fmt.Errorf("load background: %w", err)
		}
		// Canvas units equal background pixels when the background set the
		// canvas size, so this is normally a 1:1 copy.
		draw.CatmullRom.Scale(dst, dst.Bounds(), bg, bg.Bounds(), draw.Src, nil)
	}

	var skipped []string
	for i := range comp.Layers {
		l := &comp.Layers[i]
		img, err := assets.Load(l.DisplayAssetID())
		if err != nil {
			skipped = append(skipped, l.ID)
			continue
		}
		drawLayer(dst, img, l)
	}

	return dst, skipped, nil
}

// drawLayer paints one layer onto dst. The source rectangle carries the
// crop; the affine matrix carries position, scale, mirror and rotation.
func drawLayer(dst *image.RGBA, src image.Image, l *document.Layer) {
	sb := src.Bounds()
	iw := float64(sb.Dx())
	ih := float64(sb.Dy())
	if iw <= 0 || ih <= 0 {
		return
	}

	snap := l.Snapshot()
	paint := geometry.LayerMatrix(snap)
	if l.Mirrored {
		// Flip layer-local x about the box so the matrix maps source-left
		// to box-right.
		paint = paint.Multiply(geometry.Translation(snap.Size.Width, 0)).
			Multiply(geometry.Scaling(-1, 1))
	}
	// Source pixels to layer-local units to canvas.
	m := paint.Multiply(geometry.Scaling(snap.Size.Width/iw, snap.Size.Height/ih))

	// Crop insets are given in box space. Mirroring swaps which source
	// side each horizontal inset cuts.
	left, right := snap.Crop.Left, snap.Crop.Right
	if l.Mirrored {
		left, right = right, left
	}
	sr := image.Rect(
		sb.Min.X+int(math.Round(iw*left/100)),
		sb.Min.Y+int(math.Round(ih*snap.Crop.Top/100)),
		sb.Max.X-int(math.Round(iw*right/100)),
		sb.Max.Y-int(math.Round(ih*snap.Crop.Bottom/100)),
	)
	if sr.Empty() {
		return
	}

	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	draw.CatmullRom.Transform(dst, aff, src, sr, draw.Over, nil)
}
