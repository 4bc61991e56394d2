package tack

// Obstacle pairs an entity id with its rectangle for collision queries.
// The push engine works on these detached values so it stays a pure function
// over the entity collection.
type Obstacle struct {
	ID   string
	Rect Rect
}

// PushOptions tunes a ResolvePush pass.
type PushOptions struct {
	// GridStep snaps pushed positions. Zero disables snapping.
	GridStep float64
	// Buffer is the extra clearance added to every push vector.
	Buffer float64
	// MaxDepth caps the displacement chain. Zero falls back to
	// DefaultPushDepth.
	MaxDepth int
	// Bounds, when non-nil, confines pushed entities; the clamp is
	// unconditional so nothing ever escapes a container.
	Bounds *Rect
}

// DefaultPushDepth is the chain depth cap guaranteeing termination in dense
// clusters.
const DefaultPushDepth = 5

// ResolvePush computes the cascading displacement caused by mover occupying
// its tentative rectangle. Every obstacle intersecting the mover is shoved
// along the cheapest separation axis, snapped to the grid, and clamped into
// Bounds; each displaced obstacle then becomes a mover itself, up to MaxDepth
// links deep. An obstacle is pushed at most once per pass, so the result is
// idempotent for the pass and entities not (transitively) touching the mover
// keep their rectangles.
//
// The returned slice holds only the obstacles that moved, in push order, with
// their final rectangles. Obstacles whose ID matches moverID are skipped.
func ResolvePush(mover Rect, moverID string, obstacles []Obstacle, opt PushOptions) []Obstacle {
	maxDepth := opt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultPushDepth
	}

	// Working copy so later chain links see earlier displacements.
	working := make([]Obstacle, len(obstacles))
	copy(working, obstacles)

	pushed := make(map[string]bool, 4)
	var result []Obstacle

	type waveItem struct {
		rect  Rect
		id    string
		depth int
	}
	queue := []waveItem{{rect: mover, id: moverID}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}

		for i := range working {
			ob := &working[i]
			if ob.ID == moverID || ob.ID == cur.id || pushed[ob.ID] {
				continue
			}
			if !cur.rect.Intersects(ob.Rect) {
				continue
			}

			pv := PushVector(cur.rect, ob.Rect, opt.Buffer)
			moved := ob.Rect
			moved.X = SnapToGrid(moved.X+pv.X, opt.GridStep)
			moved.Y = SnapToGrid(moved.Y+pv.Y, opt.GridStep)
			if opt.Bounds != nil {
				moved = ClampToBounds(moved, *opt.Bounds)
			}

			ob.Rect = moved
			pushed[ob.ID] = true
			result = append(result, *ob)
			queue = append(queue, waveItem{rect: moved, id: ob.ID, depth: cur.depth + 1})
		}
	}

	return result
}
