package input

import "github.com/hajimehoshi/ebiten/v2"

// TouchPoint is one active touch in screen coordinates.
type TouchPoint struct {
	ID ebiten.TouchID
	X  float64
	Y  float64
}

// Pad is the state of the first physical controller.
type Pad struct {
	Connected bool
	Buttons   [ebiten.StandardGamepadButtonMax + 1]bool
	// LeftX is the horizontal left stick axis in [-1, 1].
	LeftX float64
}

// Pressed reports whether standard button b is held.
func (p Pad) Pressed(b ebiten.StandardGamepadButton) bool {
	if b < 0 || int(b) >= len(p.Buttons) {
		return false
	}
	return p.Connected && p.Buttons[b]
}

// Raw is everything polled from the devices for one tick.
type Raw struct {
	Keys      []ebiten.Key
	Pad       Pad
	Touches   []TouchPoint
	MouseLeft bool
	// TouchCapable is set when a touch screen is known to be present.
	TouchCapable bool
}

// KeyHeld reports whether k is in the held set.
func (r Raw) KeyHeld(k ebiten.Key) bool {
	for _, held := range r.Keys {
		if held == k {
			return true
		}
	}
	return false
}

// Poller produces the raw device state once per tick.
type Poller interface {
	Poll() Raw
}

// PollerFunc adapts a function to Poller.
type PollerFunc func() Raw

func (f PollerFunc) Poll() Raw { return f() }
