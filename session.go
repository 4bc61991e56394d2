package tack

// SessionKind names the interaction state machine's states. The states are
// mutually exclusive; beginning a new session implicitly cancels the prior
// one.
type SessionKind uint8

const (
	SessionIdle SessionKind = iota
	SessionDragging
	SessionResizing
	SessionPanning
)

// Session is the ephemeral state of an in-progress pointer interaction. It
// is owned by the Board, never persisted, and discarded on release or
// cancellation.
type Session struct {
	Kind SessionKind

	// Dragging and resizing.
	EntityID        string
	SourceContainer string // container the entity was in at press time

	// Dragging: pointer offset from the entity's scope-space origin.
	Offset Vec2

	// Resizing.
	Handle     Handle
	Anchor     Rect // entity rect at press time
	startWorld Vec2 // world pointer at press time

	// Panning: last screen point.
	panAnchor Vec2

	moved bool
}

// Session returns the current interaction session state.
func (b *Board) Session() Session {
	return b.session
}

// HoverContainer returns the id of the container currently highlighted as a
// drop target during a free-canvas drag, or "" when none. While a hover is
// active, push physics for the mover is suspended.
func (b *Board) HoverContainer() string {
	return b.hover
}

// --- Press ---

// Press is the single entry point for pointer-down events. Middle button and
// modifier+primary presses start panning; a press on an entity's border
// starts resizing on the matching handle; a press on its body starts
// dragging. Presses on empty canvas leave the board idle. Returns the
// session kind that began.
func (b *Board) Press(screen Vec2, button MouseButton, mods KeyModifiers) SessionKind {
	b.CancelSession()

	if button == MouseButtonMiddle ||
		(button == MouseButtonLeft && mods&(ModCtrl|ModMeta) != 0) {
		b.BeginPan(screen)
		return SessionPanning
	}
	if button != MouseButtonLeft {
		return SessionIdle
	}

	world := b.viewport.ScreenToWorld(screen)
	e, ok := b.EntityAt(world)
	if !ok {
		return SessionIdle
	}

	wr, _ := b.WorldRect(e.ID)
	if h := handleAt(wr, world, b.cfg.HandleMargin/b.viewport.Zoom); h != HandleNone {
		b.BeginResize(e.ID, h, screen)
		return SessionResizing
	}
	b.BeginDrag(e.ID, screen)
	return SessionDragging
}

// BeginDrag starts dragging an entity, capturing the pointer offset relative
// to the entity's position and the container it started in. A missing id is
// a no-op.
func (b *Board) BeginDrag(id string, screen Vec2) {
	b.CancelSession()
	e, ok := b.entities[id]
	if !ok {
		return
	}

	world := b.viewport.ScreenToWorld(screen)
	scopePtr := b.toScope(e.ContainerID, world)

	b.session = Session{
		Kind:            SessionDragging,
		EntityID:        id,
		SourceContainer: e.ContainerID,
		Offset:          scopePtr.Sub(e.Rect.Pos()),
		Anchor:          e.Rect,
	}
	b.raise(id)
}

// BeginResize starts resizing an entity from one of the eight handles,
// capturing the starting rectangle as the anchor. A missing id or HandleNone
// is a no-op.
func (b *Board) BeginResize(id string, h Handle, screen Vec2) {
	b.CancelSession()
	e, ok := b.entities[id]
	if !ok || h == HandleNone {
		return
	}
	b.session = Session{
		Kind:       SessionResizing,
		EntityID:   id,
		Handle:     h,
		Anchor:     e.Rect,
		startWorld: b.viewport.ScreenToWorld(screen),
	}
}

// BeginPan starts panning the viewport from the given screen point.
func (b *Board) BeginPan(screen Vec2) {
	b.CancelSession()
	b.session = Session{Kind: SessionPanning, panAnchor: screen}
}

// --- Move ---

// UpdateSession feeds the latest pointer position into the active session.
// Panning and container drags apply immediately; widget drags and resizes
// are coalesced to one commit per Step so fast pointer streams do not outrun
// the render loop. Idle sessions ignore the call.
func (b *Board) UpdateSession(screen Vec2) {
	switch b.session.Kind {
	case SessionPanning:
		delta := screen.Sub(b.session.panAnchor)
		b.viewport = b.viewport.Pan(delta)
		b.session.panAnchor = screen
		b.session.moved = true

	case SessionDragging, SessionResizing:
		world := b.viewport.ScreenToWorld(screen)
		b.pendingMove = &world
		// Container drags skip push physics, so committing them every
		// event is cheap and keeps the coarsest interaction snappy.
		if e, ok := b.entities[b.session.EntityID]; ok &&
			b.session.Kind == SessionDragging && e.IsContainer() {
			b.flushMove()
		}
	}
}

// flushMove applies the most recent pointer sample to the active session.
// Called once per Step, or eagerly for container drags.
func (b *Board) flushMove() {
	if b.pendingMove == nil {
		return
	}
	world := *b.pendingMove
	b.pendingMove = nil

	switch b.session.Kind {
	case SessionDragging:
		b.applyDragMove(world)
	case SessionResizing:
		b.applyResizeMove(world)
	}
}

// applyDragMove commits a tentative drag position: raw (unsnapped) mover
// coordinates for visual smoothness, push physics against same-scope
// siblings, and drop-target hover detection for free-canvas drags.
func (b *Board) applyDragMove(world Vec2) {
	e, ok := b.entities[b.session.EntityID]
	if !ok {
		b.CancelSession()
		return
	}

	scopePtr := b.toScope(e.ContainerID, world)
	e.Rect.X = scopePtr.X - b.session.Offset.X
	e.Rect.Y = scopePtr.Y - b.session.Offset.Y
	e.UpdatedAt = b.now()
	b.session.moved = true

	// Drop-target highlight: a free entity hovering a container is about to
	// be dropped into it, so pushing its future siblings around would only
	// fight the transfer.
	b.hover = ""
	if !e.IsNested() {
		center := b.worldRect(e).Center()
		if cid, ok := b.containerAt(center, e.ID); ok {
			b.hover = cid
		}
	}

	if e.Type == EntityWidget && b.hover == "" {
		b.resolveSessionPush(e)
	}
}

// applyResizeMove derives the new rectangle from the anchor rect and the
// world-space delta per the active handle, snapped to the grid with the type
// minimum enforced, then lets push physics clear the grown area.
func (b *Board) applyResizeMove(world Vec2) {
	e, ok := b.entities[b.session.EntityID]
	if !ok {
		b.CancelSession()
		return
	}

	delta := world.Sub(b.session.startWorld)
	minW, minH := b.cfg.minSize(e.Type)
	e.Rect = resizeRect(b.session.Anchor, b.session.Handle, delta, b.cfg.GridStep, minW, minH)
	e.UpdatedAt = b.now()
	b.session.moved = true

	if e.ContainerID != "" {
		b.autosizeContainer(e.ContainerID)
	}
	if e.Type == EntityWidget {
		b.resolveSessionPush(e)
	}
}

// resolveSessionPush runs the push engine with the session entity as mover
// and applies the displacements to its same-scope widget siblings. Containers
// are never pushed: they anchor their nested contents, and dropping onto one
// is the containment transfer's job.
func (b *Board) resolveSessionPush(e *Entity) {
	var bounds *Rect
	if e.ContainerID != "" {
		c, ok := b.entities[e.ContainerID]
		if !ok {
			return
		}
		cb := b.contentBounds(c)
		bounds = &cb
	}

	var obstacles []Obstacle
	for _, ob := range b.scopeObstacles(e.ContainerID, e.ID) {
		if b.entities[ob.ID].IsContainer() {
			continue
		}
		obstacles = append(obstacles, ob)
	}

	moved := ResolvePush(e.Rect, e.ID, obstacles, PushOptions{
		GridStep: b.cfg.GridStep,
		Buffer:   b.cfg.PushBuffer,
		MaxDepth: b.cfg.PushDepth,
		Bounds:   bounds,
	})
	for _, m := range moved {
		sib := b.entities[m.ID]
		from := sib.Rect
		sib.Rect = m.Rect
		sib.UpdatedAt = b.now()
		b.animator.Trigger(m.ID, from, m.Rect)
	}
}

// --- Release / cancel ---

// EndSession commits the active session and returns the board to idle.
// Dragging snaps the final position to the grid and applies the containment
// transfer rules; resizing and panning just keep their last applied state.
// A committed drag or resize records one history snapshot.
func (b *Board) EndSession() {
	b.flushMove()
	s := b.session
	switch s.Kind {
	case SessionDragging:
		b.endDrag()
	case SessionResizing:
		if s.moved {
			b.record("resize")
		}
	case SessionPanning:
		// Viewport navigation is not a committed mutation.
	}
	b.clearSession()
}

func (b *Board) endDrag() {
	e, ok := b.entities[b.session.EntityID]
	if !ok {
		return
	}

	e.Rect = SnapRectPos(e.Rect, b.cfg.GridStep)

	center := b.worldRect(e).Center()
	target, overContainer := b.containerAt(center, e.ID)

	switch {
	case !e.IsNested() && overContainer:
		// Free entity dropped into a container.
		b.transferToContainer(e, b.entities[target])
	case e.IsNested() && !overContainer:
		// Nested entity dragged out of every container.
		b.transferToFree(e)
		e.Rect = SnapRectPos(e.Rect, b.cfg.GridStep)
	case e.IsNested() && overContainer && target != e.ContainerID:
		// Nested entity dropped into a different container.
		b.transferToContainer(e, b.entities[target])
	case e.IsNested():
		// Stayed in its container: keep it inside the content area.
		c := b.entities[e.ContainerID]
		e.Rect = ClampToBounds(e.Rect, b.contentBounds(c))
		b.autosizeContainer(e.ContainerID)
	}

	if b.session.moved {
		b.record("drag")
	}
}

// CancelSession abandons the active session without a final commit: the last
// applied intermediate state stays, but no snapping, transfer, or history
// entry happens.
func (b *Board) CancelSession() {
	b.clearSession()
}

func (b *Board) clearSession() {
	b.session = Session{}
	b.pendingMove = nil
	b.hover = ""
}

// --- Scope and handle helpers ---

// toScope converts a world point into the coordinate frame nested entities
// of the given container use. An empty container id is the free canvas, so
// the point passes through.
func (b *Board) toScope(containerID string, world Vec2) Vec2 {
	if containerID == "" {
		return world
	}
	c, ok := b.entities[containerID]
	if !ok {
		return world
	}
	cw := b.worldRect(c)
	return Vec2{X: world.X - cw.X, Y: world.Y - cw.Y - b.cfg.HeaderOffset}
}

// handleAt maps a world point near the border of rect to one of the eight
// resize handles. margin is the half-width of the handle band in world
// units; points deeper inside the rect (or beyond the band) return
// HandleNone.
func handleAt(rect Rect, p Vec2, margin float64) Handle {
	if p.X < rect.X-margin || p.X > rect.X+rect.Width+margin ||
		p.Y < rect.Y-margin || p.Y > rect.Y+rect.Height+margin {
		return HandleNone
	}

	west := p.X <= rect.X+margin
	east := p.X >= rect.X+rect.Width-margin
	north := p.Y <= rect.Y+margin
	south := p.Y >= rect.Y+rect.Height-margin

	switch {
	case north && west:
		return HandleNW
	case north && east:
		return HandleNE
	case south && west:
		return HandleSW
	case south && east:
		return HandleSE
	case north:
		return HandleN
	case south:
		return HandleS
	case west:
		return HandleW
	case east:
		return HandleE
	}
	return HandleNone
}

// resizeRect applies a world-space pointer delta to an anchor rect per the
// active handle. Corner handles adjust two edges, edge handles one. Moving
// edges snap to the grid; the minimum size wins over the snap, keeping the
// opposite edge fixed.
func resizeRect(anchor Rect, h Handle, delta Vec2, grid, minW, minH float64) Rect {
	r := anchor

	adjustWest := h == HandleW || h == HandleNW || h == HandleSW
	adjustEast := h == HandleE || h == HandleNE || h == HandleSE
	adjustNorth := h == HandleN || h == HandleNW || h == HandleNE
	adjustSouth := h == HandleS || h == HandleSW || h == HandleSE

	if adjustWest {
		newX := SnapToGrid(anchor.X+delta.X, grid)
		right := anchor.X + anchor.Width
		if right-newX < minW {
			newX = right - minW
		}
		r.X = newX
		r.Width = right - newX
	}
	if adjustEast {
		newRight := SnapToGrid(anchor.X+anchor.Width+delta.X, grid)
		if newRight-anchor.X < minW {
			newRight = anchor.X + minW
		}
		r.Width = newRight - anchor.X
	}
	if adjustNorth {
		newY := SnapToGrid(anchor.Y+delta.Y, grid)
		bottom := anchor.Y + anchor.Height
		if bottom-newY < minH {
			newY = bottom - minH
		}
		r.Y = newY
		r.Height = bottom - newY
	}
	if adjustSouth {
		newBottom := SnapToGrid(anchor.Y+anchor.Height+delta.Y, grid)
		if newBottom-anchor.Y < minH {
			newBottom = anchor.Y + minH
		}
		r.Height = newBottom - anchor.Y
	}
	return r
}
