package tack

// defaultPlacementBudget bounds the spiral search so placement never blocks,
// no matter how dense the board is.
const defaultPlacementBudget = 1000

// FindNonCollidingPosition searches for a position near candidate's top-left
// where a rectangle of candidate's size collides with none of the obstacles.
//
// The search walks a square spiral out from the candidate position: right,
// down, left, up, with the arm growing by one step every two turns. The first
// position with zero collisions — and, when bounds is non-nil, fully inside
// bounds — wins. If the iteration budget runs out the original candidate
// position is returned unchanged; the caller gets a best-effort overlap
// rather than a failure.
func FindNonCollidingPosition(candidate Rect, obstacles []Rect, step float64, bounds *Rect) Vec2 {
	if step <= 0 {
		step = 1
	}

	fits := func(r Rect) bool {
		if bounds != nil {
			if r.X < bounds.X || r.Y < bounds.Y ||
				r.X+r.Width > bounds.X+bounds.Width ||
				r.Y+r.Height > bounds.Y+bounds.Height {
				return false
			}
		}
		for _, ob := range obstacles {
			if r.Intersects(ob) {
				return false
			}
		}
		return true
	}

	if fits(candidate) {
		return candidate.Pos()
	}

	// Square spiral: E, S, W, N with arm length 1,1,2,2,3,3... steps.
	dirs := [4]Vec2{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	probe := candidate
	arm := 1
	iter := 0
	for leg := 0; ; leg++ {
		d := dirs[leg%4]
		for i := 0; i < arm; i++ {
			probe.X += d.X * step
			probe.Y += d.Y * step
			iter++
			if fits(probe) {
				return probe.Pos()
			}
			if iter >= defaultPlacementBudget {
				return candidate.Pos()
			}
		}
		if leg%2 == 1 {
			arm++
		}
	}
}
