package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/montagehq/montage/backend-go/internal/document"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

// CompositionState holds the authoritative composition for a room.
type CompositionState struct {
	mu        sync.RWMutex
	comp      *document.Composition
	serverSeq int64
	opLog     []Operation
}

// NewCompositionState creates a new state from an initial composition.
func NewCompositionState(comp *document.Composition) *CompositionState {
	return &CompositionState{
		comp:  comp,
		opLog: make([]Operation, 0),
	}
}

// Composition returns the current composition. Callers must not mutate it.
func (cs *CompositionState) Composition() *document.Composition {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.comp
}

// MarshalComposition serializes the current composition for doc.sync.
func (cs *CompositionState) MarshalComposition() (json.RawMessage, int64, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	data, err := json.Marshal(cs.comp)
	if err != nil {
		return nil, 0, err
	}
	return data, cs.serverSeq, nil
}

// ApplyOperation applies an operation and returns the new server sequence.
func (cs *CompositionState) ApplyOperation(op Operation) (int64, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.applyOperationLocked(op); err != nil {
		return 0, err
	}

	cs.serverSeq++
	cs.opLog = append(cs.opLog, op)

	return cs.serverSeq, nil
}

func (cs *CompositionState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpLayerTransform:
		return cs.applyTransform(op)
	case OpLayerCrop:
		return cs.applyCrop(op)
	case OpLayerCreate:
		return cs.applyCreate(op)
	case OpLayerDelete:
		return cs.applyDelete(op)
	case OpLayerReorder:
		return cs.applyReorder(op)
	case OpLayerMirror:
		return cs.applyMirror(op)
	case OpLayerStyle:
		return cs.applyStyle(op)
	case OpLayerSource:
		return cs.applySource(op)
	case OpBackgroundSet:
		return cs.applyBackground(op)
	case OpProjectRename:
		cs.comp.Project.Name = op.Name
		return nil
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (cs *CompositionState) applyTransform(op Operation) error {
	if cs.comp.Layer(op.LayerID) == nil {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}

	var patch geometry.Patch
	if err := json.Unmarshal(op.Transform, &patch); err != nil {
		return fmt.Errorf("invalid transform: %w", err)
	}

	// ApplyPatch clamps size to the floor; nothing to reject.
	cs.comp.ApplyPatch(op.LayerID, patch)
	return nil
}

func (cs *CompositionState) applyCrop(op Operation) error {
	if cs.comp.Layer(op.LayerID) == nil {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}

	var crop geometry.Crop
	if err := json.Unmarshal(op.Crop, &crop); err != nil {
		return fmt.Errorf("invalid crop: %w", err)
	}

	cs.comp.ApplyPatch(op.LayerID, geometry.Patch{Crop: &crop})
	return nil
}

func (cs *CompositionState) applyCreate(op Operation) error {
	var l document.Layer
	if err := json.Unmarshal(op.Layer, &l); err != nil {
		return fmt.Errorf("invalid layer: %w", err)
	}
	if l.ID == "" {
		return fmt.Errorf("layer id is required")
	}
	if cs.comp.Layer(l.ID) != nil {
		return fmt.Errorf("layer already exists: %s", l.ID)
	}

	// The server owns z assignment; AddLayer puts the layer on top.
	cs.comp.AddLayer(l)
	return nil
}

func (cs *CompositionState) applyDelete(op Operation) error {
	if !cs.comp.RemoveLayer(op.LayerID) {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}
	return nil
}

func (cs *CompositionState) applyReorder(op Operation) error {
	if op.VisualFrom == nil || op.VisualTo == nil {
		return fmt.Errorf("reorder requires visualFrom and visualTo")
	}
	if !cs.comp.MoveLayerVisual(*op.VisualFrom, *op.VisualTo) {
		return fmt.Errorf("reorder indices out of range: %d -> %d", *op.VisualFrom, *op.VisualTo)
	}
	return nil
}

func (cs *CompositionState) applyMirror(op Operation) error {
	l := cs.comp.Layer(op.LayerID)
	if l == nil {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}
	if op.Mirrored != nil {
		l.Mirrored = *op.Mirrored
	}
	return nil
}

func (cs *CompositionState) applyStyle(op Operation) error {
	l := cs.comp.Layer(op.LayerID)
	if l == nil {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}
	if op.StyleName != nil {
		l.StyleName = *op.StyleName
	}
	return nil
}

func (cs *CompositionState) applySource(op Operation) error {
	l := cs.comp.Layer(op.LayerID)
	if l == nil {
		return fmt.Errorf("layer not found: %s", op.LayerID)
	}
	if op.CutoutAssetID != "" {
		l.CutoutAssetID = op.CutoutAssetID
	}
	if op.ShowCutout != nil {
		l.ShowCutout = *op.ShowCutout
	}
	return nil
}

func (cs *CompositionState) applyBackground(op Operation) error {
	var bg document.Background
	if err := json.Unmarshal(op.Background, &bg); err != nil {
		return fmt.Errorf("invalid background: %w", err)
	}
	if bg.AssetID == "" || bg.Width <= 0 || bg.Height <= 0 {
		return fmt.Errorf("background requires assetId and positive dimensions")
	}
	cs.comp.Background = &bg
	return nil
}

// GetServerTimestamp returns the current server timestamp.
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
