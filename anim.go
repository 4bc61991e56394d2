package tack

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pushAnimDuration is how long a pushed entity eases into its new spot.
const pushAnimDuration = 0.18

// pushTween animates the visual offset of one pushed entity from its old
// position toward zero.
type pushTween struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	done   bool
}

// PushAnimator tracks transient render offsets for entities displaced by
// push physics. The entity data itself already holds the final position —
// the animator is presentation feedback, not layout state, and is never
// persisted or snapshotted.
type PushAnimator struct {
	tweens map[string]*pushTween
}

func newPushAnimator() *PushAnimator {
	return &PushAnimator{tweens: make(map[string]*pushTween)}
}

// Trigger starts (or restarts) the eased slide for an entity that was just
// displaced from to its new rectangle.
func (a *PushAnimator) Trigger(id string, from, to Rect) {
	dx := from.X - to.X
	dy := from.Y - to.Y
	if dx == 0 && dy == 0 {
		return
	}
	a.tweens[id] = &pushTween{
		tweenX: gween.New(float32(dx), 0, pushAnimDuration, ease.OutQuad),
		tweenY: gween.New(float32(dy), 0, pushAnimDuration, ease.OutQuad),
	}
}

// Update advances all active tweens by dt seconds and drops finished ones.
func (a *PushAnimator) Update(dt float64) {
	for id, tw := range a.tweens {
		_, doneX := tw.tweenX.Update(float32(dt))
		_, doneY := tw.tweenY.Update(float32(dt))
		if doneX && doneY {
			delete(a.tweens, id)
		}
	}
}

// Offset returns the current render offset for an entity, and whether it is
// animating. Renderers add the offset to the entity's committed position.
func (a *PushAnimator) Offset(id string) (Vec2, bool) {
	tw, ok := a.tweens[id]
	if !ok {
		return Vec2{}, false
	}
	// Tweens report their value on Update; peek by updating with zero dt.
	x, _ := tw.tweenX.Update(0)
	y, _ := tw.tweenY.Update(0)
	return Vec2{X: float64(x), Y: float64(y)}, true
}

// Active returns the number of in-flight push animations.
func (a *PushAnimator) Active() int {
	return len(a.tweens)
}
