package engine

import (
	"encoding/json"
	"testing"

	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// newTestEditor loads a canvas-default composition with the given layers and
// sizes the container so the scale is exactly 1 and the origin (16, 16).
func newTestEditor(t *testing.T, layers ...document.Layer) *Editor {
	t.Helper()
	comp := document.Composition{
		Project: document.Project{ID: "proj_test", Name: "Test"},
		Layers:  layers,
	}
	for i := range comp.Layers {
		comp.Layers[i].ZIndex = i + 1
	}
	data, err := json.Marshal(&comp)
	if err != nil {
		t.Fatal(err)
	}

	e := NewEditor()
	if err := e.LoadComposition(string(data)); err != nil {
		t.Fatal(err)
	}
	// Canvas is the 1280x720 default; 1312x752 leaves the padding and fits 1:1.
	e.SetContainerSize(1312, 752)
	if e.Scale() != 1 {
		t.Fatalf("test setup: scale = %v, want 1", e.Scale())
	}
	return e
}

func testLayer(id string, x, y, w, h float64) document.Layer {
	return document.Layer{
		ID:            id,
		Position:      geometry.Point{X: x, Y: y},
		Size:          geometry.Size{Width: w, Height: h},
		SourceAssetID: "asset_" + id,
	}
}

func TestProjectLayers(t *testing.T) {
	l := testLayer("layer_a", 100, 100, 200, 100)
	l.Crop = geometry.Crop{Left: 20, Right: 40}
	e := newTestEditor(t, l)

	boxes := e.ProjectLayers()
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want 1", len(boxes))
	}
	b := boxes[0]

	if b.X != 116 || b.Y != 116 || b.Width != 200 || b.Height != 100 {
		t.Errorf("box = (%v, %v, %v, %v), want (116, 116, 200, 100)", b.X, b.Y, b.Width, b.Height)
	}
	// Origin percent is the visible region's center: 20 + 40/2 = 40.
	if b.OriginXPct != 40 {
		t.Errorf("originXPct = %v, want 40", b.OriginXPct)
	}
	if b.OriginYPct != 50 {
		t.Errorf("originYPct = %v, want 50", b.OriginYPct)
	}
	if b.Clip != l.Crop {
		t.Errorf("clip = %+v, want %+v", b.Clip, l.Crop)
	}
	if b.Selected || len(b.Handles) != 0 {
		t.Error("unselected layer must not carry handles")
	}
}

func TestSelectionCarriesHandles(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))

	// Click the body: selects and starts a translate.
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)

	if e.Selection() != "layer_a" {
		t.Fatalf("selection = %q, want layer_a", e.Selection())
	}

	boxes := e.ProjectLayers()
	if !boxes[0].Selected {
		t.Fatal("box not marked selected")
	}
	if len(boxes[0].Handles) != 9 {
		t.Fatalf("got %d handles, want 9", len(boxes[0].Handles))
	}
	for _, h := range boxes[0].Handles {
		if h.Width != HandleScreenSize || h.Height != HandleScreenSize {
			t.Errorf("handle %s is %vx%v, want %vx%v", h.Kind, h.Width, h.Height, HandleScreenSize, HandleScreenSize)
		}
	}
}

func TestHandlesKeepScreenSizeWhenZoomed(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)

	// Shrink the container to scale 0.5.
	e.SetContainerSize(672, 392)
	if e.Scale() != 0.5 {
		t.Fatalf("scale = %v, want 0.5", e.Scale())
	}

	boxes := e.ProjectLayers()
	for _, h := range boxes[0].Handles {
		if h.Width != HandleScreenSize || h.Height != HandleScreenSize {
			t.Errorf("handle %s is %vx%v at half zoom, want constant %v", h.Kind, h.Width, h.Height, HandleScreenSize)
		}
	}
}

func TestHitTestBody(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))

	hit := e.HitTest(216, 166)
	if hit.LayerID != "layer_a" || hit.Handle != HandleBody {
		t.Errorf("hit = %+v, want layer_a body", hit)
	}

	// Background just outside the layer.
	hit = e.HitTest(50, 50)
	if hit.LayerID != "" {
		t.Errorf("hit = %+v, want background", hit)
	}
}

func TestHitTestCropExcluded(t *testing.T) {
	// The cropped-away strip of the box must not respond to clicks.
	l := testLayer("layer_a", 100, 100, 200, 100)
	l.Crop = geometry.Crop{Left: 50}
	e := newTestEditor(t, l)

	// Canvas x in [100, 200) is inside the full box but cropped away.
	hit := e.HitTest(156, 166)
	if hit.LayerID != "" {
		t.Errorf("hit on cropped strip = %+v, want background", hit)
	}
	hit = e.HitTest(316, 166)
	if hit.LayerID != "layer_a" {
		t.Errorf("hit on visible part = %+v, want layer_a", hit)
	}
}

func TestHitTestFrontToBack(t *testing.T) {
	bottom := testLayer("layer_bottom", 100, 100, 200, 100)
	top := testLayer("layer_top", 150, 120, 200, 100)
	e := newTestEditor(t, bottom, top)

	// Point inside both; higher z wins.
	hit := e.HitTest(216, 186)
	if hit.LayerID != "layer_top" {
		t.Errorf("hit = %+v, want layer_top", hit)
	}
}

func TestHitTestGripsWinOverBodies(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)

	// Top-left grip center projects to (116, 116).
	hit := e.HitTest(116, 116)
	if hit.LayerID != "layer_a" || hit.Handle != HandleResizeTopLeft {
		t.Errorf("hit = %+v, want layer_a resize-tl", hit)
	}
}

func TestPointerDragTranslates(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))

	e.PointerDown(216, 166)
	if e.GestureMode() != "translating" {
		t.Fatalf("mode = %q, want translating", e.GestureMode())
	}

	e.PointerMove(246, 176)
	e.PointerUp(246, 176)

	if e.GestureMode() != "idle" {
		t.Errorf("mode after up = %q, want idle", e.GestureMode())
	}

	var comp document.Composition
	if err := json.Unmarshal([]byte(e.GetComposition()), &comp); err != nil {
		t.Fatal(err)
	}
	l := comp.Layer("layer_a")
	if l.Position.X != 130 || l.Position.Y != 110 {
		t.Errorf("position = %+v, want (130, 110)", l.Position)
	}
}

func TestPointerDownBackgroundDeselects(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)
	if e.Selection() != "layer_a" {
		t.Fatal("setup: layer not selected")
	}

	e.PointerDown(50, 50)
	if e.Selection() != "" {
		t.Errorf("selection = %q, want cleared", e.Selection())
	}
}

func TestResizeGestureEndToEnd(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)

	// Bottom-right grip center projects to (316, 216).
	e.PointerDown(316, 216)
	if e.GestureMode() != "resizing-bottom-right" {
		t.Fatalf("mode = %q, want resizing-bottom-right", e.GestureMode())
	}
	e.PointerMove(366, 216) // dx = +50
	e.PointerUp(366, 216)

	var comp document.Composition
	if err := json.Unmarshal([]byte(e.GetComposition()), &comp); err != nil {
		t.Fatal(err)
	}
	l := comp.Layer("layer_a")
	if l.Size.Width != 250 || l.Size.Height != 125 {
		t.Errorf("size = %+v, want 250x125", l.Size)
	}
	if l.Position.X != 100 || l.Position.Y != 100 {
		t.Errorf("position = %+v, want anchored at (100, 100)", l.Position)
	}
}

func TestAddRemoveLayerSelection(t *testing.T) {
	e := newTestEditor(t)

	id := e.AddLayer("asset_new", 800, 600)
	if id == "" {
		t.Fatal("no layer id")
	}
	if e.Selection() != id {
		t.Errorf("selection = %q, want new layer %q", e.Selection(), id)
	}

	e.RemoveLayer(id)
	if e.Selection() != "" {
		t.Errorf("selection = %q, want cleared after remove", e.Selection())
	}

	// Background press right after must be a clean no-op.
	e.PointerDown(50, 50)
	if e.GestureMode() != "idle" {
		t.Errorf("mode = %q, want idle", e.GestureMode())
	}
}

func TestUpdateCompositionPreservesSelection(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100), testLayer("layer_b", 500, 300, 200, 100))
	e.PointerDown(216, 166)
	e.PointerUp(216, 166)

	// Remote update that keeps layer_a.
	var comp document.Composition
	json.Unmarshal([]byte(e.GetComposition()), &comp)
	comp.RemoveLayer("layer_b")
	data, _ := json.Marshal(&comp)
	if err := e.UpdateComposition(string(data)); err != nil {
		t.Fatal(err)
	}
	if e.Selection() != "layer_a" {
		t.Errorf("selection = %q, want layer_a preserved", e.Selection())
	}

	// Remote update that deletes the selected layer.
	comp.RemoveLayer("layer_a")
	data, _ = json.Marshal(&comp)
	if err := e.UpdateComposition(string(data)); err != nil {
		t.Fatal(err)
	}
	if e.Selection() != "" {
		t.Errorf("selection = %q, want cleared", e.Selection())
	}
}

func TestCompileDrawCommands(t *testing.T) {
	l := testLayer("layer_a", 100, 100, 200, 100)
	l.Mirrored = true
	e := newTestEditor(t, l)
	e.SetBackground("asset_bg", 1280, 720)

	commands := e.CompileDrawCommands()
	if len(commands) != 5 {
		t.Fatalf("got %d commands, want 5", len(commands))
	}
	if commands[0].Op != "background" || commands[0].AssetID != "asset_bg" {
		t.Errorf("first command = %+v, want background", commands[0])
	}
	wantOps := []string{"background", "save", "clip", "image", "restore"}
	for i, op := range wantOps {
		if commands[i].Op != op {
			t.Errorf("command %d op = %q, want %q", i, commands[i].Op, op)
		}
	}

	clip, img := commands[2], commands[3]
	if img.AssetID != "asset_layer_a" {
		t.Errorf("image asset = %q", img.AssetID)
	}
	// Mirroring flips the paint transform but never the clip.
	if clip.Transform[0] == img.Transform[0] {
		t.Error("mirrored image transform should differ from clip transform")
	}
	if img.Rect.Width != 200 || img.Rect.Height != 100 {
		t.Errorf("image rect = %+v, want full 200x100 box", img.Rect)
	}
}

func TestDrawCommandsNoBackground(t *testing.T) {
	e := newTestEditor(t, testLayer("layer_a", 100, 100, 200, 100))
	commands := e.CompileDrawCommands()
	if len(commands) != 4 {
		t.Fatalf("got %d commands, want 4 (no background)", len(commands))
	}
	if commands[0].Op != "save" {
		t.Errorf("first op = %q, want save", commands[0].Op)
	}
}

func TestModeForHandle(t *testing.T) {
	if modeForHandle(HandleBody).String() != "translating" {
		t.Error("body should start translate")
	}
	if modeForHandle(HandleRotate).String() != "rotating" {
		t.Error("rotate grip should start rotate")
	}
	if modeForHandle(HandleCropRight).String() != "cropping-right" {
		t.Error("crop grip should start crop")
	}
	if modeForHandle(HandleNone).String() != "idle" {
		t.Error("unknown handle should stay idle")
	}
}
