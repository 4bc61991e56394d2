package tack

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button string  `json:"button,omitempty"`
	Kind   string  `json:"kind,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for an interaction script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays a JSON interaction script against a board, one step
// per frame, for automated scenario testing without a window or a mouse.
// Coordinates in scripts are screen-space, exactly as a pointer would
// deliver them.
//
// Supported actions: "press" (x, y, optional button "left"/"middle"),
// "move" (x, y), "release", "cancel", "create" (x, y, kind
// "widget"/"container"), "undo", "redo", and "wait" (frames).
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script scriptFile
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step executes at most one script action, then advances the board by one
// frame at 60 TPS.
func (r *ScriptRunner) Step(b *Board) {
	if !r.done {
		if r.waitCount > 0 {
			r.waitCount--
		} else if r.cursor >= len(r.steps) {
			r.done = true
		} else {
			r.exec(b, r.steps[r.cursor])
			r.cursor++
		}
	}
	b.Step(1.0 / 60.0)
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// RunAll steps until the script completes.
func (r *ScriptRunner) RunAll(b *Board) {
	for !r.Done() {
		r.Step(b)
	}
}

func (r *ScriptRunner) exec(b *Board, st scriptStep) {
	p := Vec2{X: st.X, Y: st.Y}
	switch st.Action {
	case "press":
		button := MouseButtonLeft
		if st.Button == "middle" {
			button = MouseButtonMiddle
		}
		b.Press(p, button, 0)
	case "move":
		b.UpdateSession(p)
	case "release":
		b.EndSession()
	case "cancel":
		b.CancelSession()
	case "create":
		world := b.Viewport().ScreenToWorld(p)
		if st.Kind == "container" {
			b.CreateContainer(world)
		} else {
			b.CreateWidget(world)
		}
	case "undo":
		b.Undo()
	case "redo":
		b.Redo()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}
