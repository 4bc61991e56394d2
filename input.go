package tack

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultDragDeadZone = 4.0  // pixels
	wheelZoomFactor     = 1.08 // zoom multiplier per wheel notch
)

// Controller is the ebiten pointer adapter: it polls mouse state each frame
// and drives the board's session state machine. The engine itself never
// touches ambient input — everything reaches it through explicit Press /
// UpdateSession / EndSession calls, and the Controller is just one such
// caller. Headless hosts can skip it entirely.
type Controller struct {
	deadZone float64

	pressed     bool
	button      MouseButton
	startScreen Vec2
	engaged     bool // a session has been started for this press
}

// NewController returns a controller with the default drag dead zone.
func NewController() *Controller {
	return &Controller{deadZone: defaultDragDeadZone}
}

// SetDragDeadZone sets the minimum movement in pixels before a press engages
// a session, separating clicks from drags.
func (c *Controller) SetDragDeadZone(pixels float64) {
	c.deadZone = pixels
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// Update polls the mouse and feeds the board. Call once per frame, before
// Board.Step.
func (c *Controller) Update(b *Board) {
	mx, my := ebiten.CursorPosition()
	screen := Vec2{X: float64(mx), Y: float64(my)}
	mods := readModifiers()

	// Wheel zoom, anchored at the cursor.
	if _, wy := ebiten.Wheel(); wy != 0 {
		b.ZoomAt(screen, math.Pow(wheelZoomFactor, wy))
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) && c.engaged {
		b.CancelSession()
		c.engaged = false
	}

	// Detect which button is pressed. Once down, keep the button captured
	// at press time so it cannot change mid-interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case middle:
			button = MouseButtonMiddle
		default:
			button = MouseButtonRight
		}
	}

	switch {
	case pressed && !c.pressed:
		c.pressed = true
		c.button = button
		c.startScreen = screen
		c.engaged = false

	case pressed && c.pressed:
		if !c.engaged {
			dx := screen.X - c.startScreen.X
			dy := screen.Y - c.startScreen.Y
			if math.Sqrt(dx*dx+dy*dy) > c.deadZone {
				kind := b.Press(c.startScreen, c.button, mods)
				c.engaged = kind != SessionIdle
			}
		}
		if c.engaged {
			b.UpdateSession(screen)
		}

	case !pressed && c.pressed:
		if c.engaged {
			b.UpdateSession(screen)
			b.EndSession()
		}
		c.pressed = false
		c.engaged = false
	}
}
