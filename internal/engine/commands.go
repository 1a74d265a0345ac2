package engine

import (
	"encoding/json"

	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// DrawCommand is a single painting operation for the frontend to execute on a
// Canvas2D context. Commands arrive in painter's order (back to front).
type DrawCommand struct {
	Op        string         `json:"op"` // "background", "save", "clip", "image", "restore"
	LayerID   string         `json:"layerId,omitempty"`
	AssetID   string         `json:"assetId,omitempty"`
	Transform []float64      `json:"transform,omitempty"` // [a, b, c, d, e, f] screen-space affine
	Rect      *geometry.Rect `json:"rect,omitempty"`      // in the transform's local units
}

// CompileDrawCommands flattens the composition into a draw command buffer:
// the background scaled to its fitted screen box, then each layer clipped to
// its crop and painted with its full transform (mirror included).
func (e *Editor) CompileDrawCommands() []DrawCommand {
	scale := e.resolver.Scale()
	originX, originY := e.resolver.Origin()

	screen := geometry.Translation(originX, originY).Multiply(geometry.Scaling(scale, scale))

	var commands []DrawCommand

	if e.comp.Background != nil {
		w, h := e.comp.CanvasSize()
		commands = append(commands, DrawCommand{
			Op:        "background",
			AssetID:   e.comp.Background.AssetID,
			Transform: screen.ToSlice(),
			Rect:      &geometry.Rect{Width: w, Height: h},
		})
	}

	for i := range e.comp.Layers {
		l := &e.comp.Layers[i]
		snap := l.Snapshot()

		m := screen.Multiply(geometry.LayerMatrix(snap))
		vis := visibleRect(snap)

		paint := m
		if l.Mirrored {
			// Flip about the full box's vertical midline, after the
			// crop clip so insets keep their on-screen sides.
			paint = m.Multiply(geometry.Translation(l.Size.Width, 0)).
				Multiply(geometry.Scaling(-1, 1))
		}

		commands = append(commands,
			DrawCommand{Op: "save"},
			DrawCommand{Op: "clip", Transform: m.ToSlice(), Rect: &vis},
			DrawCommand{
				Op:        "image",
				LayerID:   l.ID,
				AssetID:   l.DisplayAssetID(),
				Transform: paint.ToSlice(),
				Rect:      &geometry.Rect{Width: l.Size.Width, Height: l.Size.Height},
			},
			DrawCommand{Op: "restore"},
		)
	}

	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) string {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]"
	}
	return string(data)
}
