package document

import (
	"math/rand"
	"testing"

	"github.com/montagehq/montage/backend-go/internal/geometry"
)

func compWithLayers(ids ...string) *Composition {
	c := NewEmptyComposition("proj_test", "Test")
	for _, id := range ids {
		c.AddLayer(Layer{
			ID:       id,
			Position: geometry.Point{X: 0, Y: 0},
			Size:     geometry.Size{Width: 100, Height: 100},
		})
	}
	return c
}

func assertContiguousZ(t *testing.T, c *Composition) {
	t.Helper()
	for i, l := range c.Layers {
		if l.ZIndex != i+1 {
			t.Fatalf("layer %s at index %d has z %d, want %d", l.ID, i, l.ZIndex, i+1)
		}
	}
}

func order(c *Composition) []string {
	ids := make([]string, len(c.Layers))
	for i, l := range c.Layers {
		ids[i] = l.ID
	}
	return ids
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddLayerAssignsContiguousZ(t *testing.T) {
	c := compWithLayers("a", "b", "c")
	assertContiguousZ(t, c)
	if c.Layers[2].ID != "c" {
		t.Errorf("new layer should land on top, got %v", order(c))
	}
}

func TestRemoveLayerRenumbers(t *testing.T) {
	c := compWithLayers("a", "b", "c", "d")
	if !c.RemoveLayer("b") {
		t.Fatal("remove returned false")
	}
	assertContiguousZ(t, c)
	if !sameOrder(order(c), []string{"a", "c", "d"}) {
		t.Errorf("order = %v", order(c))
	}
	if c.RemoveLayer("missing") {
		t.Error("removing a missing layer should return false")
	}
}

func TestMoveLayerVisual(t *testing.T) {
	// Array order is ascending z: a bottom, d top. The visual list shows
	// top-most first: [d, c, b, a].
	tests := []struct {
		name     string
		from, to int
		want     []string
		ok       bool
	}{
		{"top to bottom", 0, 3, []string{"d", "a", "b", "c"}, true},
		{"bottom to top", 3, 0, []string{"b", "c", "d", "a"}, true},
		{"adjacent swap", 1, 2, []string{"a", "c", "b", "d"}, true},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}, true},
		{"out of range from", -1, 2, []string{"a", "b", "c", "d"}, false},
		{"out of range to", 0, 4, []string{"a", "b", "c", "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compWithLayers("a", "b", "c", "d")
			ok := c.MoveLayerVisual(tt.from, tt.to)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !sameOrder(order(c), tt.want) {
				t.Errorf("order = %v, want %v", order(c), tt.want)
			}
			assertContiguousZ(t, c)
		})
	}
}

func TestMoveLayerVisualIdempotent(t *testing.T) {
	c := compWithLayers("a", "b", "c", "d")
	c.MoveLayerVisual(0, 2)
	first := order(c)

	// A duplicate of the same reorder (e.g. a re-delivered collab op
	// against the already-moved state) must not corrupt z.
	c.MoveLayerVisual(2, 2)
	if !sameOrder(order(c), first) {
		t.Errorf("order changed: %v -> %v", first, order(c))
	}
	assertContiguousZ(t, c)
}

func TestApplyPatchClamps(t *testing.T) {
	c := compWithLayers("a")

	small := 10.0
	rot := 725.0
	ok := c.ApplyPatch("a", geometry.Patch{
		Width:    &small,
		Height:   &small,
		Rotation: &rot,
		Crop:     &geometry.Crop{Top: 95, Bottom: 95},
	})
	if !ok {
		t.Fatal("patch rejected")
	}

	l := c.Layer("a")
	if l.Size.Width != geometry.MinLayerSize || l.Size.Height != geometry.MinLayerSize {
		t.Errorf("size = %+v, want clamped to %v", l.Size, geometry.MinLayerSize)
	}
	// Rotation is continuous and unnormalized.
	if l.Rotation != 725 {
		t.Errorf("rotation = %v, want 725 (no normalization)", l.Rotation)
	}
	if l.Crop.Top != 90 || l.Crop.Bottom != 0 {
		t.Errorf("crop = %+v, want top 90 bottom 0", l.Crop)
	}

	if c.ApplyPatch("missing", geometry.Patch{}) {
		t.Error("patch on missing layer should return false")
	}
}

func TestCanvasSize(t *testing.T) {
	c := NewEmptyComposition("proj_test", "Test")
	w, h := c.CanvasSize()
	if w != DefaultCanvasWidth || h != DefaultCanvasHeight {
		t.Errorf("default canvas = %vx%v", w, h)
	}

	c.Background = &Background{AssetID: "asset_bg", Width: 3000, Height: 2000}
	w, h = c.CanvasSize()
	if w != 3000 || h != 2000 {
		t.Errorf("canvas = %vx%v, want 3000x2000", w, h)
	}

	// Degenerate background dimensions fall back to the default.
	c.Background = &Background{AssetID: "asset_bg"}
	w, h = c.CanvasSize()
	if w != DefaultCanvasWidth || h != DefaultCanvasHeight {
		t.Errorf("canvas with zero background = %vx%v", w, h)
	}
}

func TestDisplayAssetID(t *testing.T) {
	l := Layer{SourceAssetID: "asset_src", CutoutAssetID: "cut_x"}
	if l.DisplayAssetID() != "asset_src" {
		t.Errorf("display = %q, want source while showCutout off", l.DisplayAssetID())
	}
	l.ShowCutout = true
	if l.DisplayAssetID() != "cut_x" {
		t.Errorf("display = %q, want cutout", l.DisplayAssetID())
	}
	l.CutoutAssetID = ""
	if l.DisplayAssetID() != "asset_src" {
		t.Errorf("display = %q, want source fallback", l.DisplayAssetID())
	}
}

func TestPlaceNewLayer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		pos, size := PlaceNewLayer(2000, 1000, 800, 600, rng)

		// Aspect preserved.
		if ratio := size.Width / size.Height; ratio < 800.0/600-1e-9 || ratio > 800.0/600+1e-9 {
			t.Fatalf("aspect = %v", ratio)
		}
		// Fits inside the placement fraction of the canvas.
		if size.Width > 2000*placementFraction+1e-9 || size.Height > 1000*placementFraction+1e-9 {
			t.Fatalf("size %+v exceeds placement fraction", size)
		}
		// Whole box inside the canvas with margin.
		if pos.X < placementMargin || pos.Y < placementMargin ||
			pos.X+size.Width > 2000-placementMargin || pos.Y+size.Height > 1000-placementMargin {
			t.Fatalf("layer out of bounds: pos %+v size %+v", pos, size)
		}
	}
}

func TestPlaceNewLayerSizeFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// A tiny source on a tiny canvas still respects the size floor.
	_, size := PlaceNewLayer(100, 100, 10, 20, rng)
	if size.Width < geometry.MinLayerSize || size.Height < geometry.MinLayerSize {
		t.Errorf("size = %+v, want both >= %v", size, geometry.MinLayerSize)
	}
}

func TestPlaceNewLayerDegenerateSource(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, size := PlaceNewLayer(2000, 1000, 0, 0, rng)
	if size.Width <= 0 || size.Height <= 0 {
		t.Errorf("size = %+v, want positive", size)
	}
}

func TestSampleComposition(t *testing.T) {
	c := NewSampleComposition("proj_playground")
	if len(c.Layers) == 0 {
		t.Fatal("sample has no layers")
	}
	assertContiguousZ(t, c)
	if c.Project.ID != "proj_playground" {
		t.Errorf("project id = %q", c.Project.ID)
	}
}
