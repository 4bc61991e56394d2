// Package tack is an interactive canvas layout engine.
//
// Tack positions rectangular widgets and containers on an infinite pannable,
// zoomable plane, lets a pointer drag and resize them, automatically
// displaces overlapping neighbors (push physics), and nests widgets inside
// auto-sizing container regions. Rendering, styling, and widget content are
// deliberately out of scope: the engine owns the spatial model and the
// interaction state machine, and a host renderer reads its state.
//
// # Quick start
//
//	cfg := tack.DefaultConfig()
//	board := tack.NewBoard(cfg)
//	w := board.CreateWidget(tack.Vec2{X: 100, Y: 100})
//	board.CreateContainer(tack.Vec2{X: 600, Y: 100})
//
// Pointer interaction goes through the session state machine:
//
//	board.Press(screenPoint, tack.MouseButtonLeft, 0)
//	board.UpdateSession(screenPoint)
//	board.EndSession()
//	board.Step(dt) // once per frame
//
// Hosts built on [Ebitengine] can use [Controller], which polls the mouse
// and drives those calls each frame; see examples/boarddemo for a complete
// program. Headless hosts (or tests) call the session methods directly, or
// replay a JSON script with [ScriptRunner].
//
// # Coordinates
//
// World coordinates live on the infinite canvas; screen coordinates are
// pixels inside the window. [Viewport] converts between them and owns pan,
// clamped zoom, and zoom-to-cursor math. Nested entities store coordinates
// relative to their container's content origin (top-left plus the header
// inset); [Board.WorldRect] resolves the chain.
//
// # History and persistence
//
// Every committed mutation appends a deep-copy snapshot; [Board.Undo],
// [Board.Redo], and [Board.JumpTo] walk the list. Persistence is an
// external collaborator behind the [Store] interface — [FileStore] is the
// bundled JSON file implementation — and autosave runs cooperatively from
// [Board.Step] with backoff and a terminal failure state.
//
// [Ebitengine]: https://ebitengine.org
package tack
