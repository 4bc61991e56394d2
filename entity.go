package tack

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entity is a positioned element on the board: a free widget, a nested
// widget, or a container. Free entities hold world coordinates; nested
// entities hold coordinates relative to their container's content origin
// (container top-left plus the header offset).
type Entity struct {
	ID          string     `json:"id"`
	Type        EntityType `json:"type"`
	Rect        Rect       `json:"rect"`
	ContainerID string     `json:"containerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsContainer reports whether the entity can hold nested entities.
func (e *Entity) IsContainer() bool {
	return e.Type == EntityContainer
}

// IsNested reports whether the entity lives inside a container.
func (e *Entity) IsNested() bool {
	return e.ContainerID != ""
}

// --- Creation ---

func (b *Board) newEntity(t EntityType, r Rect, containerID string) *Entity {
	now := b.now()
	return &Entity{
		ID:          uuid.New().String(),
		Type:        t,
		Rect:        r,
		ContainerID: containerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateWidget creates a free widget near the preferred world position.
// The placement search shifts it to the nearest non-colliding spot.
func (b *Board) CreateWidget(at Vec2) Entity {
	r := Rect{X: at.X, Y: at.Y, Width: b.cfg.WidgetWidth, Height: b.cfg.WidgetHeight}
	return b.create(EntityWidget, r, "")
}

// CreateContainer creates a free container near the preferred world position.
func (b *Board) CreateContainer(at Vec2) Entity {
	r := Rect{X: at.X, Y: at.Y, Width: b.cfg.ContainerWidth, Height: b.cfg.ContainerHeight}
	return b.create(EntityContainer, r, "")
}

// CreateWidgetIn creates a widget nested in the given container, positioned
// relative to the container's content origin. Returns ErrNotFound or
// ErrNotAContainer for a bad target.
func (b *Board) CreateWidgetIn(containerID string, at Vec2) (Entity, error) {
	c, ok := b.entities[containerID]
	if !ok {
		return Entity{}, fmt.Errorf("create in %q: %w", containerID, ErrNotFound)
	}
	if !c.IsContainer() {
		return Entity{}, fmt.Errorf("create in %q: %w", containerID, ErrNotAContainer)
	}
	r := Rect{X: at.X, Y: at.Y, Width: b.cfg.WidgetWidth, Height: b.cfg.WidgetHeight}
	e := b.create(EntityWidget, r, containerID)
	return e, nil
}

// create runs the placement search against same-scope siblings, inserts the
// entity, auto-sizes its container, and records history.
func (b *Board) create(t EntityType, r Rect, containerID string) Entity {
	var bounds *Rect
	if containerID != "" {
		cb := b.contentBounds(b.entities[containerID])
		bounds = &cb
	}

	obstacles := make([]Rect, 0, len(b.order))
	for _, ob := range b.scopeObstacles(containerID, "") {
		obstacles = append(obstacles, ob.Rect)
	}

	pos := FindNonCollidingPosition(r, obstacles, b.cfg.PlacementStep, bounds)
	r.X = SnapToGrid(pos.X, b.cfg.GridStep)
	r.Y = SnapToGrid(pos.Y, b.cfg.GridStep)

	e := b.newEntity(t, r, containerID)
	b.entities[e.ID] = e
	b.order = append(b.order, e.ID)
	if containerID != "" {
		b.autosizeContainer(containerID)
	}
	b.record("create " + string(t))
	return *e
}

// --- Lookup ---

// Entity returns a copy of the entity with the given id.
func (b *Board) Entity(id string) (Entity, bool) {
	e, ok := b.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities returns copies of all entities in paint order (back to front).
func (b *Board) Entities() []Entity {
	out := make([]Entity, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.entities[id])
	}
	return out
}

// Len returns the number of entities on the board.
func (b *Board) Len() int {
	return len(b.entities)
}

// WorldRect resolves an entity's rectangle to world coordinates, walking the
// container chain for nested entities.
func (b *Board) WorldRect(id string) (Rect, bool) {
	e, ok := b.entities[id]
	if !ok {
		return Rect{}, false
	}
	return b.worldRect(e), true
}

func (b *Board) worldRect(e *Entity) Rect {
	r := e.Rect
	cid := e.ContainerID
	for cid != "" {
		c, ok := b.entities[cid]
		if !ok {
			break
		}
		r.X += c.Rect.X
		r.Y += c.Rect.Y + b.cfg.HeaderOffset
		cid = c.ContainerID
	}
	return r
}

// EntityAt returns the topmost entity whose world rectangle contains the
// given world point.
func (b *Board) EntityAt(world Vec2) (Entity, bool) {
	for i := len(b.order) - 1; i >= 0; i-- {
		e := b.entities[b.order[i]]
		if b.worldRect(e).Contains(world.X, world.Y) {
			return *e, true
		}
	}
	return Entity{}, false
}

// containerAt returns the topmost container whose world rect contains the
// point, skipping the excluded entity and anything nested under it.
func (b *Board) containerAt(world Vec2, exclude string) (string, bool) {
	for i := len(b.order) - 1; i >= 0; i-- {
		c := b.entities[b.order[i]]
		if !c.IsContainer() || c.ID == exclude {
			continue
		}
		if exclude != "" && b.isDescendant(c.ID, exclude) {
			continue
		}
		if b.worldRect(c).Contains(world.X, world.Y) {
			return c.ID, true
		}
	}
	return "", false
}

// isDescendant reports whether id sits somewhere below ancestorID in the
// containment chain.
func (b *Board) isDescendant(id, ancestorID string) bool {
	e, ok := b.entities[id]
	if !ok {
		return false
	}
	seen := 0
	cid := e.ContainerID
	for cid != "" {
		if cid == ancestorID {
			return true
		}
		c, ok := b.entities[cid]
		if !ok {
			return false
		}
		cid = c.ContainerID
		// Containment is validated acyclic, but a corrupted document
		// must not hang the walk.
		if seen++; seen > len(b.entities) {
			return false
		}
	}
	return false
}

// childrenOf returns ids of the entities nested directly in the container.
func (b *Board) childrenOf(containerID string) []string {
	var out []string
	for _, id := range b.order {
		if b.entities[id].ContainerID == containerID {
			out = append(out, id)
		}
	}
	return out
}

// scopeObstacles returns obstacles for every entity sharing a scope (the
// free canvas, or one container's content area), excluding one id. Nested
// scopes yield container-relative rects; the free scope yields world rects.
func (b *Board) scopeObstacles(containerID, exclude string) []Obstacle {
	var out []Obstacle
	for _, id := range b.order {
		e := b.entities[id]
		if id == exclude || e.ContainerID != containerID {
			continue
		}
		out = append(out, Obstacle{ID: id, Rect: e.Rect})
	}
	return out
}

// contentBounds returns the container's content area in the coordinate frame
// its nested entities use: origin at the content top-left.
func (b *Board) contentBounds(c *Entity) Rect {
	h := c.Rect.Height - b.cfg.HeaderOffset
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: 0, Width: c.Rect.Width, Height: h}
}

// --- Mutation ---

// UpdateRect replaces an entity's rectangle. Degenerate rectangles are
// rejected; sizes are clamped to the type minimum. A missing id is a no-op.
func (b *Board) UpdateRect(id string, r Rect) error {
	e, ok := b.entities[id]
	if !ok {
		return nil
	}
	if r.Empty() {
		return fmt.Errorf("update %q: %w", id, ErrInvalidGeometry)
	}
	minW, minH := b.cfg.minSize(e.Type)
	if r.Width < minW {
		r.Width = minW
	}
	if r.Height < minH {
		r.Height = minH
	}
	e.Rect = r
	e.UpdatedAt = b.now()
	if e.ContainerID != "" {
		b.autosizeContainer(e.ContainerID)
	}
	b.record("update")
	return nil
}

// Remove deletes an entity. Removing a container first promotes every
// directly nested entity to free space using the transfer formula — nothing
// is silently dropped. A missing id is a no-op.
func (b *Board) Remove(id string) {
	e, ok := b.entities[id]
	if !ok {
		return
	}

	if e.IsContainer() {
		for _, childID := range b.childrenOf(id) {
			b.transferToFree(b.entities[childID])
		}
	}

	parent := e.ContainerID
	delete(b.entities, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if parent != "" {
		b.autosizeContainer(parent)
	}
	b.record("remove")
}

// Reparent moves an entity into a container (or out to free space when
// containerID is empty), reframing its coordinates. Rejects cycles, missing
// targets, and non-container targets constructively — state is untouched on
// error.
func (b *Board) Reparent(id, containerID string) error {
	e, ok := b.entities[id]
	if !ok {
		return fmt.Errorf("reparent %q: %w", id, ErrNotFound)
	}
	if containerID == "" {
		if e.ContainerID != "" {
			b.transferToFree(e)
			b.record("reparent")
		}
		return nil
	}

	c, ok := b.entities[containerID]
	if !ok {
		return fmt.Errorf("reparent into %q: %w", containerID, ErrNotFound)
	}
	if !c.IsContainer() {
		return fmt.Errorf("reparent into %q: %w", containerID, ErrNotAContainer)
	}
	if id == containerID || b.isDescendant(containerID, id) {
		return fmt.Errorf("reparent %q into %q: %w", id, containerID, ErrCyclicNesting)
	}

	b.transferToContainer(e, c)
	b.record("reparent")
	return nil
}

// raise moves an entity to the front of the paint order.
func (b *Board) raise(id string) {
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			b.order = append(b.order, id)
			return
		}
	}
}

// --- Containment transfer ---

// transferToContainer reframes a free entity into container coordinates:
//
//	relative = world - containerWorld - (0, headerOffset)
func (b *Board) transferToContainer(e *Entity, c *Entity) {
	prev := e.ContainerID
	world := b.worldRect(e)
	cw := b.worldRect(c)
	e.Rect.X = world.X - cw.X
	e.Rect.Y = world.Y - cw.Y - b.cfg.HeaderOffset
	e.Rect = ClampToBounds(e.Rect, b.contentBounds(c))
	e.ContainerID = c.ID
	e.UpdatedAt = b.now()

	b.autosizeContainer(c.ID)
	if prev != "" {
		b.autosizeContainer(prev)
	}
}

// transferToFree reframes a nested entity back into world coordinates:
//
//	world = containerWorld + relative + (0, headerOffset)
func (b *Board) transferToFree(e *Entity) {
	prev := e.ContainerID
	if prev == "" {
		return
	}
	e.Rect = b.worldRect(e)
	e.ContainerID = ""
	e.UpdatedAt = b.now()
	if _, ok := b.entities[prev]; ok {
		b.autosizeContainer(prev)
	}
}

// autosizeContainer grows the container to the bounding extent of its nested
// entities plus padding. The result never falls below the configured
// container minimum; an empty container settles at exactly the minimum.
func (b *Board) autosizeContainer(id string) {
	c, ok := b.entities[id]
	if !ok || !c.IsContainer() {
		return
	}

	var maxX, maxY float64
	for _, childID := range b.childrenOf(id) {
		r := b.entities[childID].Rect
		if right := r.X + r.Width; right > maxX {
			maxX = right
		}
		if bottom := r.Y + r.Height; bottom > maxY {
			maxY = bottom
		}
	}

	w := maxX + b.cfg.ContainerPadding
	h := maxY + b.cfg.ContainerPadding + b.cfg.HeaderOffset
	if w < b.cfg.MinContainerWidth {
		w = b.cfg.MinContainerWidth
	}
	if h < b.cfg.MinContainerHeight {
		h = b.cfg.MinContainerHeight
	}
	if w != c.Rect.Width || h != c.Rect.Height {
		c.Rect.Width = w
		c.Rect.Height = h
		c.UpdatedAt = b.now()
		if c.ContainerID != "" {
			b.autosizeContainer(c.ContainerID)
		}
	}
}
