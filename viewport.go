package tack

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Viewport is the world-to-screen affine state for the infinite canvas.
// The offset is stored in world units:
//
//	world  = screen/zoom - offset
//	screen = (world + offset) * zoom
//
// Viewport is a value type; all operations return an updated copy and are
// total — invalid zoom factors leave the viewport unchanged.
type Viewport struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Zoom    float64 `json:"zoom"`

	// MinZoom and MaxZoom clamp the zoom factor. Zero values fall back to
	// the package defaults when clamping.
	MinZoom float64 `json:"-"`
	MaxZoom float64 `json:"-"`
}

// Default zoom clamp range, used when a Viewport carries zero limits.
const (
	DefaultMinZoom = 0.05
	DefaultMaxZoom = 10.0
)

// NewViewport returns a viewport at the world origin with 1:1 zoom and the
// given clamp range. Non-positive limits fall back to the defaults.
func NewViewport(minZoom, maxZoom float64) Viewport {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	return Viewport{Zoom: 1.0, MinZoom: minZoom, MaxZoom: maxZoom}
}

func (v Viewport) zoomLimits() (lo, hi float64) {
	lo, hi = v.MinZoom, v.MaxZoom
	if lo <= 0 {
		lo = DefaultMinZoom
	}
	if hi <= 0 {
		hi = DefaultMaxZoom
	}
	return lo, hi
}

// ScreenToWorld converts a screen-space point to world coordinates.
func (v Viewport) ScreenToWorld(p Vec2) Vec2 {
	return Vec2{
		X: p.X/v.Zoom - v.OffsetX,
		Y: p.Y/v.Zoom - v.OffsetY,
	}
}

// WorldToScreen converts a world-space point to screen coordinates.
func (v Viewport) WorldToScreen(p Vec2) Vec2 {
	return Vec2{
		X: (p.X + v.OffsetX) * v.Zoom,
		Y: (p.Y + v.OffsetY) * v.Zoom,
	}
}

// Pan translates the viewport by a screen-space delta.
func (v Viewport) Pan(screenDelta Vec2) Viewport {
	v.OffsetX += screenDelta.X / v.Zoom
	v.OffsetY += screenDelta.Y / v.Zoom
	return v
}

// ZoomAt multiplies the zoom by factor, clamped to the viewport's range, and
// recomputes the offset so the world point under screenAnchor stays under it.
// A zero or negative factor is rejected and the viewport returned unchanged.
func (v Viewport) ZoomAt(screenAnchor Vec2, factor float64) Viewport {
	if factor <= 0 {
		return v
	}
	lo, hi := v.zoomLimits()
	newZoom := v.Zoom * factor
	if newZoom < lo {
		newZoom = lo
	} else if newZoom > hi {
		newZoom = hi
	}
	if newZoom == v.Zoom {
		return v
	}

	// The world point under the anchor must be identical before and after:
	//   anchor/oldZoom - oldOffset == anchor/newZoom - newOffset
	v.OffsetX += screenAnchor.X/newZoom - screenAnchor.X/v.Zoom
	v.OffsetY += screenAnchor.Y/newZoom - screenAnchor.Y/v.Zoom
	v.Zoom = newZoom
	return v
}

// Reset returns the viewport to the world origin at 1:1 zoom, keeping the
// clamp range.
func (v Viewport) Reset() Viewport {
	v.OffsetX = 0
	v.OffsetY = 0
	v.Zoom = 1.0
	return v
}

// --- Animated transitions ---

// viewportAnim tweens the viewport offset and zoom toward a target.
type viewportAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	tweenZ *gween.Tween
	done   bool
}

func newViewportAnim(from, to Viewport, duration float32) *viewportAnim {
	return &viewportAnim{
		tweenX: gween.New(float32(from.OffsetX), float32(to.OffsetX), duration, ease.OutQuad),
		tweenY: gween.New(float32(from.OffsetY), float32(to.OffsetY), duration, ease.OutQuad),
		tweenZ: gween.New(float32(from.Zoom), float32(to.Zoom), duration, ease.OutQuad),
	}
}

// update advances the animation and returns the interpolated viewport.
func (a *viewportAnim) update(v Viewport, dt float32) Viewport {
	if a.done {
		return v
	}
	x, doneX := a.tweenX.Update(dt)
	y, doneY := a.tweenY.Update(dt)
	z, doneZ := a.tweenZ.Update(dt)
	v.OffsetX = float64(x)
	v.OffsetY = float64(y)
	v.Zoom = float64(z)
	a.done = doneX && doneY && doneZ
	return v
}
