// Package engine is the editor core: it owns the live composition, single
// selection, viewport scale, and gesture state machine, and projects the
// result back out as screen boxes and draw commands. It processes commands
// from the embedding frontend and answers queries, exactly one event at a
// time on the UI thread.
package engine

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/gesture"
	"github.com/montagehq/montage/backend-go/internal/geometry"
	"github.com/montagehq/montage/backend-go/internal/typeid"
	"github.com/montagehq/montage/backend-go/internal/viewport"
)

// Editor owns the document state and the interaction machinery around it.
type Editor struct {
	comp       *document.Composition
	resolver   *viewport.Resolver
	feed       *gesture.Feed
	controller *gesture.Controller

	selection string
	rng       *rand.Rand

	// Intent hooks: the embedder mirrors selection/patches (e.g. into
	// collaboration ops) after the editor has applied them locally.
	onSelect func(id string)
	onUpdate func(id string, patch geometry.Patch)
}

// NewEditor creates an editor with an empty composition and a scale of 1.
func NewEditor() *Editor {
	e := &Editor{
		comp:     document.NewEmptyComposition("", ""),
		resolver: viewport.NewResolver(),
		feed:     gesture.NewFeed(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	e.controller = gesture.NewController(e.feed, e.resolver.Scale, e.resolver.Origin, gesture.Callbacks{
		SelectLayer: e.applySelect,
		UpdateLayer: e.applyPatch,
	})
	return e
}

// SetCallbacks registers the embedder's selection/update intent hooks.
func (e *Editor) SetCallbacks(onSelect func(id string), onUpdate func(id string, patch geometry.Patch)) {
	e.onSelect = onSelect
	e.onUpdate = onUpdate
}

// --- Commands (frontend → engine) ---

// LoadComposition replaces the document from JSON and resets selection.
func (e *Editor) LoadComposition(jsonData string) error {
	var comp document.Composition
	if err := json.Unmarshal([]byte(jsonData), &comp); err != nil {
		return err
	}

	e.comp = &comp
	e.controller.Teardown()
	e.controller.Select("")
	e.syncCanvasSize()
	return nil
}

// UpdateComposition reloads the document from JSON while preserving selection
// when the selected layer still exists. Used when remote operations land
// during editing.
func (e *Editor) UpdateComposition(jsonData string) error {
	var comp document.Composition
	if err := json.Unmarshal([]byte(jsonData), &comp); err != nil {
		return err
	}

	e.comp = &comp
	if e.selection != "" && e.comp.Layer(e.selection) == nil {
		e.controller.Select("")
	}
	e.syncCanvasSize()
	return nil
}

// LoadSampleComposition loads the built-in playground document.
func (e *Editor) LoadSampleComposition(projectID string) {
	e.comp = document.NewSampleComposition(projectID)
	e.controller.Teardown()
	e.controller.Select("")
	e.syncCanvasSize()
}

// SetContainerSize reports the container's rendered size; the viewport scale
// recomputes immediately.
func (e *Editor) SetContainerSize(w, h float64) {
	e.resolver.SetContainerSize(w, h)
}

// SetBackground installs the background once its natural dimensions are
// known. From here on, canvas-space units equal the background's pixels.
func (e *Editor) SetBackground(assetID string, width, height float64) {
	e.comp.Background = &document.Background{AssetID: assetID, Width: width, Height: height}
	e.syncCanvasSize()
}

// AddLayer creates a layer for a finished upload: default size fitted to a
// fraction of the canvas preserving the source's aspect ratio, randomized
// position inside the canvas bounds. The new layer lands on top of the stack
// and becomes selected. Returns the new layer id.
func (e *Editor) AddLayer(assetID string, naturalW, naturalH float64) string {
	canvasW, canvasH := e.comp.CanvasSize()
	pos, size := document.PlaceNewLayer(canvasW, canvasH, naturalW, naturalH, e.rng)

	l := document.Layer{
		ID:            typeid.NewLayerID(),
		Position:      pos,
		Size:          size,
		SourceAssetID: assetID,
	}
	e.comp.AddLayer(l)
	e.controller.Select(l.ID)
	return l.ID
}

// RemoveLayer deletes a layer, clearing selection if it was selected.
func (e *Editor) RemoveLayer(id string) {
	if !e.comp.RemoveLayer(id) {
		return
	}
	if e.selection == id {
		e.controller.Select("")
	}
}

// MoveLayer reorders by visual (top-most-first) list indices.
func (e *Editor) MoveLayer(visualFrom, visualTo int) {
	e.comp.MoveLayerVisual(visualFrom, visualTo)
}

// SetCutoutAsset attaches an AI-processed result to a layer and switches the
// display to it.
func (e *Editor) SetCutoutAsset(id, assetID string) {
	if l := e.comp.Layer(id); l != nil {
		l.CutoutAssetID = assetID
		l.ShowCutout = true
	}
}

// SetShowCutout toggles between the original source and the cutout result.
func (e *Editor) SetShowCutout(id string, show bool) {
	if l := e.comp.Layer(id); l != nil {
		l.ShowCutout = show
	}
}

// SetMirrored flips a layer horizontally.
func (e *Editor) SetMirrored(id string, mirrored bool) {
	if l := e.comp.Layer(id); l != nil {
		l.Mirrored = mirrored
	}
}

// SetStyle assigns a named presentation style to a layer. Styles are a
// rendering concern; the engine only carries the name.
func (e *Editor) SetStyle(id, styleName string) {
	if l := e.comp.Layer(id); l != nil {
		l.StyleName = styleName
	}
}

// PointerDown routes a press to the gesture state machine: a grip or layer
// body starts the matching gesture (selecting the layer), the background
// deselects.
func (e *Editor) PointerDown(x, y float64) {
	hit := e.HitTest(x, y)
	if hit.LayerID == "" {
		e.controller.PressBackground()
		return
	}

	l := e.comp.Layer(hit.LayerID)
	if l == nil {
		return
	}
	e.controller.Begin(modeForHandle(hit.Handle), l.ID, l.Snapshot(), gesture.PointerEvent{X: x, Y: y})
}

// PointerMove forwards global pointer movement to the active gesture.
func (e *Editor) PointerMove(x, y float64) {
	e.feed.Move(gesture.PointerEvent{X: x, Y: y})
}

// PointerUp ends the active gesture, wherever the pointer is.
func (e *Editor) PointerUp(x, y float64) {
	e.feed.Up(gesture.PointerEvent{X: x, Y: y})
}

// Teardown removes gesture listeners; used on frontend unmount, which may
// arrive without a pointer-up.
func (e *Editor) Teardown() {
	e.controller.Teardown()
}

// --- Queries (engine → frontend) ---

// Project returns the render projection of every layer as JSON.
func (e *Editor) Project() string {
	data, err := json.Marshal(e.ProjectLayers())
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Render returns the draw command buffer as JSON.
func (e *Editor) Render() string {
	return DrawCommandsToJSON(e.CompileDrawCommands())
}

// HitTestJSON resolves a screen point and returns the result as JSON.
func (e *Editor) HitTestJSON(x, y float64) string {
	data, err := json.Marshal(e.HitTest(x, y))
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetComposition returns the full document as JSON.
func (e *Editor) GetComposition() string {
	data, err := json.Marshal(e.comp)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Selection returns the selected layer id, or "".
func (e *Editor) Selection() string {
	return e.selection
}

// Scale returns the live viewport scale factor.
func (e *Editor) Scale() float64 {
	return e.resolver.Scale()
}

// GestureMode returns the active gesture state name (for debugging overlays).
func (e *Editor) GestureMode() string {
	return e.controller.Mode().String()
}

// --- internal ---

func (e *Editor) applySelect(id string) {
	e.selection = id
	if e.onSelect != nil {
		e.onSelect(id)
	}
}

func (e *Editor) applyPatch(id string, patch geometry.Patch) {
	if !e.comp.ApplyPatch(id, patch) {
		return
	}
	if e.onUpdate != nil {
		e.onUpdate(id, patch)
	}
}

func (e *Editor) syncCanvasSize() {
	w, h := e.comp.CanvasSize()
	e.resolver.SetCanvasSize(w, h)
}
