package tack

import "errors"

// Vec2 is a 2D vector used for positions, offsets, sizes, and deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum of v and other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns the component-wise difference of v and other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Free entities use world
// coordinates; nested entities use coordinates relative to their container's
// content origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Pos returns the rectangle's top-left corner.
func (r Rect) Pos() Vec2 {
	return Vec2{r.X, r.Y}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap on both axes.
// Rectangles that only share an edge or corner do not intersect; the push
// engine relies on this strictness to leave settled neighbors alone.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// EntityType distinguishes layout behavior for an Entity.
type EntityType string

const (
	// EntityWidget is a plain rectangular element.
	EntityWidget EntityType = "widget"
	// EntityContainer is a bounded region that can hold nested entities
	// within its own local coordinate frame.
	EntityContainer EntityType = "container"
)

// MouseButton identifies which mouse button an interaction uses.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// KeyModifiers is a bitmask of modifier keys held during an interaction.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Handle identifies one of the eight resize handles on an entity's border.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleN
	HandleS
	HandleE
	HandleW
	HandleNE
	HandleNW
	HandleSE
	HandleSW
)

// String returns the compass name of the handle.
func (h Handle) String() string {
	switch h {
	case HandleN:
		return "n"
	case HandleS:
		return "s"
	case HandleE:
		return "e"
	case HandleW:
		return "w"
	case HandleNE:
		return "ne"
	case HandleNW:
		return "nw"
	case HandleSE:
		return "se"
	case HandleSW:
		return "sw"
	default:
		return "none"
	}
}

// --- Errors ---

// Sentinel errors returned across the public boundary. Some recoverable
// conditions (missing ids, exhausted placement searches) degrade to no-ops
// instead of returning an error; these cover the rest.
var (
	// ErrNotFound reports an entity or container id with no live record.
	ErrNotFound = errors.New("tack: entity not found")
	// ErrNotAContainer reports a nesting target that is not a container.
	ErrNotAContainer = errors.New("tack: entity is not a container")
	// ErrCyclicNesting reports a re-parent that would nest a container
	// inside itself or one of its descendants.
	ErrCyclicNesting = errors.New("tack: cyclic container nesting")
	// ErrInvalidGeometry reports a degenerate rectangle (non-positive
	// width or height).
	ErrInvalidGeometry = errors.New("tack: invalid geometry")
	// ErrNoStore reports a persistence operation without a configured Store.
	ErrNoStore = errors.New("tack: no store configured")
	// ErrSchemaVersion reports a document with an unsupported schema version.
	ErrSchemaVersion = errors.New("tack: unsupported schema version")
	// ErrAutosaveDisabled reports that autosave gave up after repeated
	// store failures and will not retry this session.
	ErrAutosaveDisabled = errors.New("tack: autosave disabled after repeated failures")
)
