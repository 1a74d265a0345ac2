package document

import "github.com/montagehq/montage/backend-go/internal/geometry"

// NewSampleComposition builds the built-in playground composition: a default
// canvas with two pre-placed layers, so the editor is interactive without an
// account or any uploads.
func NewSampleComposition(projectID string) *Composition {
	return &Composition{
		Project: Project{
			ID:      projectID,
			Name:    "Playground",
			Version: 1,
		},
		Layers: []Layer{
			{
				ID:            "layer_sample_postcard",
				Position:      geometry.Point{X: 140, Y: 120},
				Size:          geometry.Size{Width: 420, Height: 280},
				Rotation:      -4,
				ZIndex:        1,
				SourceAssetID: "asset_sample_postcard",
			},
			{
				ID:            "layer_sample_figure",
				Position:      geometry.Point{X: 640, Y: 220},
				Size:          geometry.Size{Width: 260, Height: 360},
				Rotation:      7,
				Crop:          geometry.Crop{Top: 5, Bottom: 5},
				ZIndex:        2,
				SourceAssetID: "asset_sample_figure",
				ShowCutout:    false,
			},
		},
	}
}
