package tack

import (
	"errors"
	"testing"
)

func newTestBoard() *Board {
	return NewBoard(DefaultConfig())
}

// --- Creation and placement ---

func TestCreateWidgetOnEmptyBoard(t *testing.T) {
	b := newTestBoard()
	e := b.CreateWidget(Vec2{X: 100, Y: 100})

	if e.Type != EntityWidget {
		t.Errorf("type = %v, want widget", e.Type)
	}
	if e.Rect != (Rect{100, 100, 200, 150}) {
		t.Errorf("rect = %v, want default size at the requested point", e.Rect)
	}
	if e.ContainerID != "" {
		t.Errorf("free widget has container %q", e.ContainerID)
	}
	if e.ID == "" {
		t.Error("entity has no id")
	}
}

func TestCreateWidgetAvoidsCollision(t *testing.T) {
	b := newTestBoard()
	a := b.CreateWidget(Vec2{X: 100, Y: 100})
	c := b.CreateWidget(Vec2{X: 100, Y: 100})

	if a.Rect.Intersects(c.Rect) {
		t.Errorf("second widget %v overlaps first %v", c.Rect, a.Rect)
	}
	if c.Rect.X != SnapToGrid(c.Rect.X, 10) || c.Rect.Y != SnapToGrid(c.Rect.Y, 10) {
		t.Errorf("placed widget %v not grid snapped", c.Rect)
	}
}

func TestCreateWidgetInRejectsBadTargets(t *testing.T) {
	b := newTestBoard()
	w := b.CreateWidget(Vec2{})

	if _, err := b.CreateWidgetIn("missing", Vec2{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("create in missing container: err = %v, want ErrNotFound", err)
	}
	if _, err := b.CreateWidgetIn(w.ID, Vec2{}); !errors.Is(err, ErrNotAContainer) {
		t.Errorf("create in a widget: err = %v, want ErrNotAContainer", err)
	}
}

func TestCreateWidgetInNestsAndAutosizes(t *testing.T) {
	b := newTestBoard()
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	child, err := b.CreateWidgetIn(c.ID, Vec2{})
	if err != nil {
		t.Fatalf("CreateWidgetIn: %v", err)
	}

	if child.ContainerID != c.ID {
		t.Errorf("child container = %q, want %q", child.ContainerID, c.ID)
	}
	if child.Rect != (Rect{0, 0, 200, 150}) {
		t.Errorf("child rect = %v", child.Rect)
	}

	// Auto-size settles the container at the child's extent plus padding,
	// header included.
	got, _ := b.Entity(c.ID)
	if got.Rect.Width != 220 || got.Rect.Height != 210 {
		t.Errorf("container sized %vx%v, want 220x210", got.Rect.Width, got.Rect.Height)
	}
}

// --- Coordinate resolution ---

func TestWorldRectWalksContainerChain(t *testing.T) {
	b := newTestBoard()
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	child, _ := b.CreateWidgetIn(c.ID, Vec2{X: 50, Y: 30})

	wr, ok := b.WorldRect(child.ID)
	if !ok {
		t.Fatal("WorldRect: child not found")
	}
	want := Rect{650, 170, 200, 150} // container pos + relative + header offset
	if wr != want {
		t.Errorf("world rect = %v, want %v", wr, want)
	}
}

func TestEntityAtPrefersTopmost(t *testing.T) {
	b := newTestBoard()
	a := b.CreateWidget(Vec2{X: 0, Y: 0})
	z := b.CreateWidget(Vec2{X: 400, Y: 0})
	if err := b.UpdateRect(z.ID, Rect{100, 100, 200, 150}); err != nil {
		t.Fatalf("UpdateRect: %v", err)
	}

	// Both cover (150, 120); z was created later so it paints on top.
	got, ok := b.EntityAt(Vec2{X: 150, Y: 120})
	if !ok || got.ID != z.ID {
		t.Fatalf("EntityAt = %v, want the later entity", got.ID)
	}

	// Starting a drag raises the grabbed entity above it.
	b.BeginDrag(a.ID, Vec2{X: 50, Y: 50})
	b.CancelSession()
	got, ok = b.EntityAt(Vec2{X: 150, Y: 120})
	if !ok || got.ID != a.ID {
		t.Errorf("EntityAt after raise = %v, want the dragged entity", got.ID)
	}
}

// --- UpdateRect ---

func TestUpdateRect(t *testing.T) {
	b := newTestBoard()
	w := b.CreateWidget(Vec2{})

	if err := b.UpdateRect(w.ID, Rect{50, 50, 10, 10}); err != nil {
		t.Fatalf("UpdateRect: %v", err)
	}
	got, _ := b.Entity(w.ID)
	if got.Rect != (Rect{50, 50, 120, 80}) {
		t.Errorf("rect = %v, want position kept and size clamped to widget minimum", got.Rect)
	}

	if err := b.UpdateRect(w.ID, Rect{0, 0, 0, 100}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("degenerate rect: err = %v, want ErrInvalidGeometry", err)
	}
	if err := b.UpdateRect("missing", Rect{0, 0, 100, 100}); err != nil {
		t.Errorf("missing id: err = %v, want nil no-op", err)
	}
}

func TestUpdateRectClampsContainerMinimum(t *testing.T) {
	b := newTestBoard()
	c := b.CreateContainer(Vec2{X: 0, Y: 0})

	// An empty container shrunk below its minimum settles at exactly the
	// minimum, never smaller.
	if err := b.UpdateRect(c.ID, Rect{0, 0, 10, 10}); err != nil {
		t.Fatalf("UpdateRect: %v", err)
	}
	got, _ := b.Entity(c.ID)
	if got.Rect != (Rect{0, 0, 200, 150}) {
		t.Errorf("rect = %v, want the 200x150 container minimum", got.Rect)
	}
}

// --- Remove ---

func TestRemoveContainerPromotesChildren(t *testing.T) {
	b := newTestBoard()
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	child, _ := b.CreateWidgetIn(c.ID, Vec2{X: 50, Y: 30})

	b.Remove(c.ID)

	if _, ok := b.Entity(c.ID); ok {
		t.Fatal("container still present after Remove")
	}
	got, ok := b.Entity(child.ID)
	if !ok {
		t.Fatal("nested child was dropped with its container")
	}
	if got.ContainerID != "" {
		t.Errorf("promoted child still nested in %q", got.ContainerID)
	}
	if got.Rect != (Rect{650, 170, 200, 150}) {
		t.Errorf("promoted child at %v, want its former world position", got.Rect)
	}
}

// --- Reparent ---

func TestReparentRoundTrip(t *testing.T) {
	b := newTestBoard()
	c := b.CreateContainer(Vec2{X: 600, Y: 100})
	child, _ := b.CreateWidgetIn(c.ID, Vec2{X: 50, Y: 30})

	if err := b.Reparent(child.ID, ""); err != nil {
		t.Fatalf("Reparent out: %v", err)
	}
	got, _ := b.Entity(child.ID)
	if got.ContainerID != "" || got.Rect != (Rect{650, 170, 200, 150}) {
		t.Fatalf("after transfer out: container=%q rect=%v", got.ContainerID, got.Rect)
	}

	// The container shrank to its minimum when emptied; grow it back so the
	// return transfer is not clamped.
	if err := b.UpdateRect(c.ID, Rect{600, 100, 800, 600}); err != nil {
		t.Fatalf("UpdateRect: %v", err)
	}
	if err := b.Reparent(child.ID, c.ID); err != nil {
		t.Fatalf("Reparent in: %v", err)
	}
	got, _ = b.Entity(child.ID)
	if got.ContainerID != c.ID || got.Rect != (Rect{50, 30, 200, 150}) {
		t.Errorf("after transfer back: container=%q rect=%v, want original relative rect",
			got.ContainerID, got.Rect)
	}
}

func TestReparentRejectsCycles(t *testing.T) {
	b := newTestBoard()
	outer := b.CreateContainer(Vec2{X: 0, Y: 0})
	inner := b.CreateContainer(Vec2{X: 2000, Y: 0})
	if err := b.Reparent(inner.ID, outer.ID); err != nil {
		t.Fatalf("nesting container: %v", err)
	}

	if err := b.Reparent(outer.ID, inner.ID); !errors.Is(err, ErrCyclicNesting) {
		t.Errorf("reparent into own descendant: err = %v, want ErrCyclicNesting", err)
	}
	if err := b.Reparent(outer.ID, outer.ID); !errors.Is(err, ErrCyclicNesting) {
		t.Errorf("reparent into self: err = %v, want ErrCyclicNesting", err)
	}

	// The failed calls must not have mutated anything.
	got, _ := b.Entity(outer.ID)
	if got.ContainerID != "" {
		t.Errorf("outer container moved to %q by a rejected reparent", got.ContainerID)
	}
}

func TestReparentRejectsBadTargets(t *testing.T) {
	b := newTestBoard()
	w := b.CreateWidget(Vec2{})
	w2 := b.CreateWidget(Vec2{X: 400, Y: 0})

	if err := b.Reparent("missing", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing entity: err = %v, want ErrNotFound", err)
	}
	if err := b.Reparent(w.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing container: err = %v, want ErrNotFound", err)
	}
	if err := b.Reparent(w.ID, w2.ID); !errors.Is(err, ErrNotAContainer) {
		t.Errorf("widget target: err = %v, want ErrNotAContainer", err)
	}
}

// --- Undo/redo through the board ---

func TestUndoRedoRestoresExactState(t *testing.T) {
	b := newTestBoard()
	w := b.CreateWidget(Vec2{X: 100, Y: 100})

	if !b.CanUndo() {
		t.Fatal("CanUndo false after a create")
	}
	if !b.Undo() {
		t.Fatal("Undo failed")
	}
	if b.Len() != 0 {
		t.Fatalf("after undo, board has %d entities, want 0", b.Len())
	}

	if !b.Redo() {
		t.Fatal("Redo failed")
	}
	got, ok := b.Entity(w.ID)
	if !ok {
		t.Fatal("redo did not restore the widget")
	}
	if got.Rect != w.Rect || got.Type != w.Type {
		t.Errorf("redo restored %+v, want %+v", got, w)
	}
}

func TestUndoThenMutateTruncatesRedo(t *testing.T) {
	b := newTestBoard()
	b.CreateWidget(Vec2{X: 0, Y: 0})
	b.CreateWidget(Vec2{X: 400, Y: 0})

	b.Undo()
	if !b.CanRedo() {
		t.Fatal("CanRedo false right after an undo")
	}

	b.CreateWidget(Vec2{X: 800, Y: 0})
	if b.CanRedo() {
		t.Error("redo branch survived a new mutation")
	}
	if b.Len() != 2 {
		t.Errorf("board has %d entities, want 2", b.Len())
	}
}

func TestUndoRedoRecordsNothing(t *testing.T) {
	b := newTestBoard()
	b.CreateWidget(Vec2{})
	b.CreateWidget(Vec2{X: 400, Y: 0})
	_, before := b.History().Cursor()

	b.Undo()
	b.Undo()
	b.Redo()
	b.JumpTo(0)

	if _, after := b.History().Cursor(); after != before {
		t.Errorf("history grew from %d to %d entries during replay", before, after)
	}
}

func TestHistoryCapDropsOldest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryLimit = 3
	b := NewBoard(cfg)

	for i := 0; i < 5; i++ {
		b.CreateWidget(Vec2{X: float64(i) * 400})
	}

	if _, total := b.History().Cursor(); total != 3 {
		t.Fatalf("history holds %d snapshots, want cap 3", total)
	}
	// Walk all the way back: only two undos fit before the floor.
	steps := 0
	for b.Undo() {
		steps++
	}
	if steps != 2 {
		t.Errorf("undid %d steps, want 2 within a cap of 3", steps)
	}
}
