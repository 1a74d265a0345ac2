//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/montagehq/montage/backend-go/internal/engine"
	"github.com/montagehq/montage/backend-go/internal/geometry"
)

var ed *engine.Editor

func main() {
	ed = engine.NewEditor()

	// Create the editor API object
	montageEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	montageEditor.Set("loadComposition", js.FuncOf(loadComposition))
	montageEditor.Set("updateComposition", js.FuncOf(updateComposition))
	montageEditor.Set("loadSampleComposition", js.FuncOf(loadSampleComposition))
	montageEditor.Set("setContainerSize", js.FuncOf(setContainerSize))
	montageEditor.Set("setBackground", js.FuncOf(setBackground))
	montageEditor.Set("addLayer", js.FuncOf(addLayer))
	montageEditor.Set("removeLayer", js.FuncOf(removeLayer))
	montageEditor.Set("moveLayer", js.FuncOf(moveLayer))
	montageEditor.Set("setCutoutAsset", js.FuncOf(setCutoutAsset))
	montageEditor.Set("setShowCutout", js.FuncOf(setShowCutout))
	montageEditor.Set("setMirrored", js.FuncOf(setMirrored))
	montageEditor.Set("setStyle", js.FuncOf(setStyle))
	montageEditor.Set("pointerDown", js.FuncOf(pointerDown))
	montageEditor.Set("pointerMove", js.FuncOf(pointerMove))
	montageEditor.Set("pointerUp", js.FuncOf(pointerUp))
	montageEditor.Set("teardown", js.FuncOf(teardown))
	montageEditor.Set("setCallbacks", js.FuncOf(setCallbacks))

	// --- Queries (frontend ← editor) ---
	montageEditor.Set("project", js.FuncOf(project))
	montageEditor.Set("render", js.FuncOf(render))
	montageEditor.Set("hitTest", js.FuncOf(hitTest))
	montageEditor.Set("getComposition", js.FuncOf(getComposition))
	montageEditor.Set("getSelection", js.FuncOf(getSelection))
	montageEditor.Set("getScale", js.FuncOf(getScale))
	montageEditor.Set("getGestureMode", js.FuncOf(getGestureMode))

	// Register on global scope
	js.Global().Set("montageEditor", montageEditor)

	// Signal that WASM is ready
	js.Global().Set("montageWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadComposition(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing composition JSON"})
	}

	if err := ed.LoadComposition(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func updateComposition(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing composition JSON"})
	}

	if err := ed.UpdateComposition(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleComposition(this js.Value, args []js.Value) interface{} {
	projectID := "proj_playground"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	ed.LoadSampleComposition(projectID)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setContainerSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetContainerSize(args[0].Float(), args[1].Float())
	return nil
}

func setBackground(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.SetBackground(args[0].String(), args[1].Float(), args[2].Float())
	return nil
}

func addLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("")
	}
	id := ed.AddLayer(args[0].String(), args[1].Float(), args[2].Float())
	return js.ValueOf(id)
}

func removeLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.RemoveLayer(args[0].String())
	return nil
}

func moveLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.MoveLayer(args[0].Int(), args[1].Int())
	return nil
}

func setCutoutAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetCutoutAsset(args[0].String(), args[1].String())
	return nil
}

func setShowCutout(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetShowCutout(args[0].String(), args[1].Bool())
	return nil
}

func setMirrored(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetMirrored(args[0].String(), args[1].Bool())
	return nil
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetStyle(args[0].String(), args[1].String())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerDown(args[0].Float(), args[1].Float())
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func teardown(this js.Value, args []js.Value) interface{} {
	ed.Teardown()
	return nil
}

// setCallbacks registers JS functions invoked after the editor applies a
// selection change or a gesture patch, so the frontend can mirror them
// into collaboration ops.
func setCallbacks(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	onSelect := args[0]
	onUpdate := args[1]

	ed.SetCallbacks(
		func(id string) {
			if onSelect.Type() == js.TypeFunction {
				onSelect.Invoke(id)
			}
		},
		func(id string, patch geometry.Patch) {
			if onUpdate.Type() != js.TypeFunction {
				return
			}
			data, err := json.Marshal(patch)
			if err != nil {
				return
			}
			onUpdate.Invoke(id, string(data))
		},
	)
	return nil
}

// --- Query Handlers ---

func project(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Project())
}

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	return js.ValueOf(ed.HitTestJSON(args[0].Float(), args[1].Float()))
}

func getComposition(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetComposition())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection())
}

func getScale(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Scale())
}

func getGestureMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GestureMode())
}
