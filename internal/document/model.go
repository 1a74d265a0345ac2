package document

import (
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// Placeholder canvas size used until a background's natural dimensions are
// known. Canvas-space units equal the background's native pixels once set.
const (
	DefaultCanvasWidth  = 1280.0
	DefaultCanvasHeight = 720.0
)

// Composition is the full editable state of one project: an optional
// background scene plus an ordered stack of cut-out layers.
type Composition struct {
	Project    Project     `json:"project"`
	Background *Background `json:"background,omitempty"`
	Layers     []Layer     `json:"layers"` // ascending z order (paint order)
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Background fixes the canvas's logical size to its natural pixel dimensions.
type Background struct {
	AssetID string  `json:"assetId"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Layer is one positionable cut-out image composited over the background.
// Position/size are in canvas-space units; rotation in degrees, continuous
// and unnormalized; crop insets in percent of the full box.
type Layer struct {
	ID       string         `json:"id"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
	Rotation float64        `json:"rotation"`
	Crop     geometry.Crop  `json:"crop"`
	ZIndex   int            `json:"zIndex"`

	SourceAssetID string `json:"sourceAssetId"`
	CutoutAssetID string `json:"cutoutAssetId,omitempty"`
	ShowCutout    bool   `json:"showCutout"`

	Mirrored  bool   `json:"mirrored"`
	StyleName string `json:"styleName,omitempty"`
}

// Snapshot freezes the layer's transform for gesture math.
func (l Layer) Snapshot() geometry.Snapshot {
	return geometry.Snapshot{
		Position: l.Position,
		Size:     l.Size,
		Rotation: l.Rotation,
		Crop:     l.Crop,
	}
}

// DisplayAssetID returns the asset the layer currently shows: the cutout
// result when present and selected for display, else the original source.
func (l Layer) DisplayAssetID() string {
	if l.ShowCutout && l.CutoutAssetID != "" {
		return l.CutoutAssetID
	}
	return l.SourceAssetID
}

// CanvasSize returns the logical canvas dimensions: the background's natural
// pixels when known, else the placeholder default.
func (c *Composition) CanvasSize() (float64, float64) {
	if c.Background != nil && c.Background.Width > 0 && c.Background.Height > 0 {
		return c.Background.Width, c.Background.Height
	}
	return DefaultCanvasWidth, DefaultCanvasHeight
}

// Layer returns a pointer to the layer with the given id, or nil.
func (c *Composition) Layer(id string) *Layer {
	for i := range c.Layers {
		if c.Layers[i].ID == id {
			return &c.Layers[i]
		}
	}
	return nil
}

// AddLayer appends the layer on top of the stack and renumbers z indices.
func (c *Composition) AddLayer(l Layer) {
	c.Layers = append(c.Layers, l)
	c.renumber()
}

// RemoveLayer deletes the layer with the given id. Returns false when the
// layer doesn't exist. Remaining z indices stay contiguous.
func (c *Composition) RemoveLayer(id string) bool {
	for i := range c.Layers {
		if c.Layers[i].ID == id {
			c.Layers = append(c.Layers[:i], c.Layers[i+1:]...)
			c.renumber()
			return true
		}
	}
	return false
}

// MoveLayerVisual reorders by visual list indices. The visual list shows the
// top-most z first, so visual index i corresponds to array index N-1-i on the
// z-ascending slice. The move splices the z-ascending array and renumbers, so
// repeating the same move is idempotent and never leaves gaps or ties.
func (c *Composition) MoveLayerVisual(from, to int) bool {
	n := len(c.Layers)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}

	src := n - 1 - from
	dst := n - 1 - to

	moved := c.Layers[src]
	c.Layers = append(c.Layers[:src], c.Layers[src+1:]...)

	rest := append([]Layer{}, c.Layers[dst:]...)
	c.Layers = append(c.Layers[:dst], moved)
	c.Layers = append(c.Layers, rest...)

	c.renumber()
	return true
}

// ApplyPatch applies a transform patch to the layer, clamping size to the
// minimum threshold and crop insets to their budget. Degenerate values are
// corrected, never rejected. Returns false when the layer doesn't exist.
func (c *Composition) ApplyPatch(id string, p geometry.Patch) bool {
	l := c.Layer(id)
	if l == nil {
		return false
	}

	if p.X != nil {
		l.Position.X = *p.X
	}
	if p.Y != nil {
		l.Position.Y = *p.Y
	}
	if p.Width != nil {
		l.Size.Width = max(*p.Width, geometry.MinLayerSize)
	}
	if p.Height != nil {
		l.Size.Height = max(*p.Height, geometry.MinLayerSize)
	}
	if p.Rotation != nil {
		l.Rotation = *p.Rotation
	}
	if p.Crop != nil {
		l.Crop = p.Crop.Clamped()
	}
	return true
}

// renumber reassigns z indices as a contiguous 1..N sequence in array order.
func (c *Composition) renumber() {
	for i := range c.Layers {
		c.Layers[i].ZIndex = i + 1
	}
}

// NewEmptyComposition creates the initial composition for a new project.
func NewEmptyComposition(projectID, projectName string) *Composition {
	return &Composition{
		Project: Project{
			ID:      projectID,
			Name:    projectName,
			Version: 1,
		},
		Layers: []Layer{},
	}
}
