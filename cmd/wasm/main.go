//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/engine"
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	roomEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	roomEngine.Set("loadDocument", js.FuncOf(loadDocument))
	roomEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	roomEngine.Set("setViewport", js.FuncOf(setViewport))
	roomEngine.Set("setGridEnabled", js.FuncOf(setGridEnabled))
	roomEngine.Set("setSnapEnabled", js.FuncOf(setSnapEnabled))
	roomEngine.Set("pointerDown", js.FuncOf(pointerDown))
	roomEngine.Set("pointerMove", js.FuncOf(pointerMove))
	roomEngine.Set("pointerUp", js.FuncOf(pointerUp))
	roomEngine.Set("cancel", js.FuncOf(cancel))
	roomEngine.Set("select", js.FuncOf(selectWall))
	roomEngine.Set("deleteSelected", js.FuncOf(deleteSelected))
	roomEngine.Set("addWall", js.FuncOf(addWall))
	roomEngine.Set("updateWall", js.FuncOf(updateWall))
	roomEngine.Set("removeWall", js.FuncOf(removeWall))
	roomEngine.Set("createRectangularRoom", js.FuncOf(createRectangularRoom))
	roomEngine.Set("closeRoom", js.FuncOf(closeRoom))
	roomEngine.Set("setRoom", js.FuncOf(setRoom))
	roomEngine.Set("applyPreset", js.FuncOf(applyPreset))

	// --- Queries (frontend ← backend) ---
	roomEngine.Set("render", js.FuncOf(render))
	roomEngine.Set("hitTest", js.FuncOf(hitTest))
	roomEngine.Set("getDocument", js.FuncOf(getDocument))
	roomEngine.Set("getWalls", js.FuncOf(getWalls))
	roomEngine.Set("getAnalysis", js.FuncOf(getAnalysis))
	roomEngine.Set("getSession", js.FuncOf(getSession))
	roomEngine.Set("proceedTo3D", js.FuncOf(proceedTo3D))
	roomEngine.Set("getPresets", js.FuncOf(getPresets))

	// Register on global scope
	js.Global().Set("roomEngine", roomEngine)

	// Signal that WASM is ready
	js.Global().Set("roomWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// number reads args[i] when it is a JS number. Float panics on anything else.
func number(args []js.Value, i int) (float64, bool) {
	if i >= len(args) || args[i].Type() != js.TypeNumber {
		return 0, false
	}
	return args[i].Float(), true
}

// point reads two numeric arguments starting at i.
func point(args []js.Value, i int) (geom.Point, bool) {
	x, okX := number(args, i)
	y, okY := number(args, i+1)
	if !okX || !okY {
		return geom.Point{}, false
	}
	return geom.Pt(x, y), true
}

// jsonResult passes a bridge query's JSON through, or its error as {error}.
func jsonResult(data string, err error) interface{} {
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(data)
}

func stringSlice(ids []string) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("document JSON")
	}
	if err := eng.LoadDocument(args[0].String()); err != nil {
		return fail(err)
	}
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	designID := "design_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		designID = args[0].String()
	}
	eng.LoadSampleDocument(designID)
	return ok()
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("viewport JSON")
	}
	vp := engine.DefaultViewport()
	if err := json.Unmarshal([]byte(args[0].String()), &vp); err != nil {
		return fail(err)
	}
	eng.SetViewport(vp)
	return ok()
}

func setGridEnabled(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 {
		eng.SetGridEnabled(args[0].Bool())
	}
	return nil
}

func setSnapEnabled(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 {
		eng.SetSnapEnabled(args[0].Bool())
	}
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	p, ok := point(args, 0)
	if !ok {
		return missing("pointer position")
	}
	eng.CanvasPointerDown(p.X, p.Y)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	p, ok := point(args, 0)
	if !ok {
		return missing("pointer position")
	}
	eng.CanvasPointerMove(p.X, p.Y)
	return nil
}

// pointerUp returns the id of the wall a drawing gesture created, if any.
func pointerUp(this js.Value, args []js.Value) interface{} {
	p, ok := point(args, 0)
	if !ok {
		return missing("pointer position")
	}
	id, err := eng.CanvasPointerUp(p.X, p.Y)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "wallId": id})
}

func cancel(this js.Value, args []js.Value) interface{} {
	eng.Cancel()
	return nil
}

func selectWall(this js.Value, args []js.Value) interface{} {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	eng.Select(id)
	return nil
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DeleteSelected())
}

// addWall takes x1, y1, x2, y2 in room meters.
func addWall(this js.Value, args []js.Value) interface{} {
	start, ok1 := point(args, 0)
	end, ok2 := point(args, 2)
	if !ok1 || !ok2 {
		return missing("wall endpoints")
	}
	id, err := eng.AddWall(start, end)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "wallId": id})
}

// updateWall takes id, x1, y1, x2, y2 in room meters.
func updateWall(this js.Value, args []js.Value) interface{} {
	start, ok1 := point(args, 1)
	end, ok2 := point(args, 3)
	if !ok1 || !ok2 || args[0].Type() != js.TypeString {
		return missing("wall id and endpoints")
	}
	if err := eng.UpdateWall(args[0].String(), start, end); err != nil {
		return fail(err)
	}
	return ok()
}

func removeWall(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.RemoveWall(args[0].String())
	return nil
}

func createRectangularRoom(this js.Value, args []js.Value) interface{} {
	size, ok := point(args, 0)
	if !ok {
		return missing("width and length")
	}
	ids, err := eng.CreateRectangularRoom(size.X, size.Y)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "wallIds": stringSlice(ids)})
}

func closeRoom(this js.Value, args []js.Value) interface{} {
	id, err := eng.CloseRoom()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "wallId": id})
}

func setRoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("room JSON")
	}
	room := eng.Room()
	if err := json.Unmarshal([]byte(args[0].String()), &room); err != nil {
		return fail(err)
	}
	eng.SetRoom(room)
	return ok()
}

func applyPreset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("preset name")
	}
	if err := eng.ApplyPreset(args[0].String()); err != nil {
		return fail(err)
	}
	return ok()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, ok := point(args, 0)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(p.X, p.Y))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.GetDocument())
}

func getWalls(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.GetWalls())
}

func getAnalysis(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.GetAnalysis())
}

func getSession(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.GetSession())
}

func proceedTo3D(this js.Value, args []js.Value) interface{} {
	return jsonResult(eng.GetRoom3D())
}

func getPresets(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(stringSlice(document.PresetKeys()))
}
