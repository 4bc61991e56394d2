package tack

import "math"

// Axis names the axis along which two rectangles are cheapest to separate.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Overlap describes how much two rectangles overlap on each axis.
// Axis is whichever axis has the smaller overlap extent — separating along it
// moves the rectangles the shortest distance.
type Overlap struct {
	X    float64
	Y    float64
	Axis Axis
}

// ComputeOverlap returns the overlap extents of a and b. Both extents are
// zero (and Axis is AxisX) when the rectangles do not intersect.
func ComputeOverlap(a, b Rect) Overlap {
	ox := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
	oy := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
	if ox <= 0 || oy <= 0 {
		return Overlap{}
	}
	axis := AxisX
	if oy < ox {
		axis = AxisY
	}
	return Overlap{X: ox, Y: oy, Axis: axis}
}

// PushVector returns the displacement that fully separates other from mover
// along the cheapest axis, plus buffer units of clearance so the pair does not
// end up touching again. On each axis the direction runs from mover's center
// toward other's center, and the magnitude is the edge-to-edge penetration in
// that direction — not the overlap extent, which understates the depth when
// other sits fully inside mover. Returns the zero vector when the rectangles
// do not overlap.
func PushVector(mover, other Rect, buffer float64) Vec2 {
	if !mover.Intersects(other) {
		return Vec2{}
	}

	mc := mover.Center()
	oc := other.Center()

	var dx float64
	if oc.X < mc.X {
		dx = -(other.X + other.Width - mover.X + buffer)
	} else {
		dx = mover.X + mover.Width - other.X + buffer
	}
	var dy float64
	if oc.Y < mc.Y {
		dy = -(other.Y + other.Height - mover.Y + buffer)
	} else {
		dy = mover.Y + mover.Height - other.Y + buffer
	}

	if math.Abs(dx) <= math.Abs(dy) {
		return Vec2{X: dx}
	}
	return Vec2{Y: dy}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ClampToBounds translates r the minimum amount needed to fit inside bounds.
// A rectangle larger than bounds is pinned to the bounds origin on the
// oversized axis.
func ClampToBounds(r, bounds Rect) Rect {
	if r.X < bounds.X {
		r.X = bounds.X
	} else if r.X+r.Width > bounds.X+bounds.Width {
		r.X = bounds.X + bounds.Width - r.Width
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}

	if r.Y < bounds.Y {
		r.Y = bounds.Y
	} else if r.Y+r.Height > bounds.Y+bounds.Height {
		r.Y = bounds.Y + bounds.Height - r.Height
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}

// SnapToGrid rounds v to the nearest multiple of step. A step of zero or
// less leaves v unchanged.
func SnapToGrid(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// SnapRectPos returns r with its position snapped to the grid. Size is left
// untouched — sizes snap only during resize, where minimums are enforced.
func SnapRectPos(r Rect, step float64) Rect {
	r.X = SnapToGrid(r.X, step)
	r.Y = SnapToGrid(r.Y, step)
	return r
}
