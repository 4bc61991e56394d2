package tack

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Board is the top-level engine object. It exclusively owns the entity
// collection, the viewport, the in-progress interaction session, and the
// undo/redo history. All mutation happens synchronously on the calling
// thread; Board is not safe for concurrent use and does not need to be —
// the engine is single-threaded and event-driven.
type Board struct {
	cfg Config

	entities map[string]*Entity
	order    []string // paint order, back to front

	viewport Viewport
	vpAnim   *viewportAnim

	session     Session
	pendingMove *Vec2 // latest world pointer, flushed once per Step
	hover       string

	history   *History
	restoring bool // guards against recording history while replaying it

	store     Store
	autosaver *Autosaver
	animator  *PushAnimator

	logger *log.Logger
	now    func() time.Time
}

// NewBoard creates an empty board with the given config. Degenerate config
// values are normalized to defaults first.
func NewBoard(cfg Config) *Board {
	cfg.normalize()
	b := &Board{
		cfg:      cfg,
		entities: make(map[string]*Entity),
		viewport: NewViewport(cfg.MinZoom, cfg.MaxZoom),
		history:  newHistory(cfg.HistoryLimit),
		animator: newPushAnimator(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		now:      time.Now,
	}
	b.autosaver = newAutosaver(cfg, b.logger)
	b.record("init")
	return b
}

// Config returns the board's normalized configuration.
func (b *Board) Config() Config {
	return b.cfg
}

// SetLogger replaces the board's logger. The default logger discards
// everything. A nil logger restores the discard logger.
func (b *Board) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	b.logger = logger
	b.autosaver.logger = logger
}

// SetStore wires the external persistence collaborator used by SaveNow,
// LoadFrom, and autosave.
func (b *Board) SetStore(store Store) {
	b.store = store
}

// Animator exposes the transient pushed-entity animation state for renderers.
func (b *Board) Animator() *PushAnimator {
	return b.animator
}

// --- Viewport control ---

// Viewport returns the current viewport state.
func (b *Board) Viewport() Viewport {
	return b.viewport
}

// Pan translates the viewport by a screen-space delta.
func (b *Board) Pan(screenDelta Vec2) {
	b.vpAnim = nil
	b.viewport = b.viewport.Pan(screenDelta)
}

// ZoomAt multiplies the zoom by factor, anchored at a screen point so the
// world under the cursor stays put. Invalid factors are ignored.
func (b *Board) ZoomAt(screenAnchor Vec2, factor float64) {
	b.vpAnim = nil
	b.viewport = b.viewport.ZoomAt(screenAnchor, factor)
}

// ResetViewport animates the viewport back to the origin at 1:1 zoom.
// Pass zero duration to snap immediately.
func (b *Board) ResetViewport(duration float32) {
	target := b.viewport.Reset()
	if duration <= 0 {
		b.viewport = target
		b.vpAnim = nil
		return
	}
	b.vpAnim = newViewportAnim(b.viewport, target, duration)
}

// --- History control ---

// Undo steps back one snapshot. Returns false when there is nothing to undo.
func (b *Board) Undo() bool {
	data, ok := b.history.undo()
	if !ok {
		return false
	}
	b.applySnapshot(data)
	return true
}

// Redo steps forward one snapshot. Returns false when there is nothing to redo.
func (b *Board) Redo() bool {
	data, ok := b.history.redo()
	if !ok {
		return false
	}
	b.applySnapshot(data)
	return true
}

// JumpTo moves the history cursor to an absolute snapshot index.
func (b *Board) JumpTo(index int) bool {
	data, ok := b.history.jumpTo(index)
	if !ok {
		return false
	}
	b.applySnapshot(data)
	return true
}

// CanUndo reports whether an earlier snapshot exists.
func (b *Board) CanUndo() bool { return b.history.canUndo() }

// CanRedo reports whether a later snapshot exists.
func (b *Board) CanRedo() bool { return b.history.canRedo() }

// record appends a history snapshot unless a snapshot is being replayed.
func (b *Board) record(label string) {
	if b.restoring {
		return
	}
	b.history.save(label, b.exportDocument())
}

// applySnapshot replaces the board state with a stored snapshot. The
// restoring flag stops the replacement itself from creating a new entry.
func (b *Board) applySnapshot(doc Document) {
	b.restoring = true
	defer func() { b.restoring = false }()

	b.CancelSession()
	b.importDocument(doc)
}

// --- Frame tick ---

// Step advances the board by one frame: it flushes the throttled session
// move, advances transient animations, and gives autosave a chance to run.
// dt is the frame delta in seconds. Callers embedding the board in a render
// loop should call Step once per frame.
func (b *Board) Step(dt float64) {
	b.flushMove()

	if b.vpAnim != nil {
		b.viewport = b.vpAnim.update(b.viewport, float32(dt))
		if b.vpAnim.done {
			b.vpAnim = nil
		}
	}

	b.animator.Update(dt)

	if b.store != nil {
		b.autosaver.tick(b.now(), b.store, b.exportDocument)
	}
}

// AutosaveErr returns the terminal autosave error, or nil while autosave is
// healthy. Once non-nil, autosave has disabled itself for the session.
func (b *Board) AutosaveErr() error {
	return b.autosaver.terminalErr()
}
