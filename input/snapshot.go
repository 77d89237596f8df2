package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const stickDeadzone = 0.2

// Buttons is the logical button state games read.
type Buttons struct {
	Left  bool
	Right bool
	Jump  bool
	Back  bool
}

// Snapshot is the unified input for one tick. It is built once and passed by
// value.
type Snapshot struct {
	Raw
	// Virtual holds the buttons derived from touches alone.
	Virtual Buttons
	// Buttons is the OR of physical and virtual sources.
	Buttons Buttons
	// MoveX is -1..1, analog when the stick is past the deadzone.
	MoveX float64
	// Continue advances the game after death or a finished level.
	Continue bool
	// Activate is the primary action that starts the game.
	Activate bool
}

func physicalButtons(raw Raw) Buttons {
	stickLeft, stickRight := false, false
	if raw.Pad.Connected {
		stickLeft = raw.Pad.LeftX < -0.5
		stickRight = raw.Pad.LeftX > 0.5
	}
	return Buttons{
		Left: raw.KeyHeld(ebiten.KeyA) || raw.KeyHeld(ebiten.KeyArrowLeft) ||
			raw.Pad.Pressed(ebiten.StandardGamepadButtonLeftLeft) || stickLeft,
		Right: raw.KeyHeld(ebiten.KeyD) || raw.KeyHeld(ebiten.KeyArrowRight) ||
			raw.Pad.Pressed(ebiten.StandardGamepadButtonLeftRight) || stickRight,
		Jump: raw.KeyHeld(ebiten.KeySpace) || raw.KeyHeld(ebiten.KeyW) || raw.KeyHeld(ebiten.KeyArrowUp) ||
			raw.Pad.Pressed(ebiten.StandardGamepadButtonRightBottom),
		Back: raw.KeyHeld(ebiten.KeyEscape) || raw.Pad.Pressed(ebiten.StandardGamepadButtonCenterLeft),
	}
}

func or(a, b Buttons) Buttons {
	return Buttons{
		Left:  a.Left || b.Left,
		Right: a.Right || b.Right,
		Jump:  a.Jump || b.Jump,
		Back:  a.Back || b.Back,
	}
}

func buildSnapshot(raw Raw, virtual Buttons) Snapshot {
	s := Snapshot{
		Raw:     raw,
		Virtual: virtual,
		Buttons: or(physicalButtons(raw), virtual),
	}

	if s.Buttons.Left {
		s.MoveX -= 1
	}
	if s.Buttons.Right {
		s.MoveX += 1
	}
	if raw.Pad.Connected && math.Abs(raw.Pad.LeftX) > stickDeadzone {
		s.MoveX = max(-1, min(1, raw.Pad.LeftX))
	}

	s.Continue = raw.KeyHeld(ebiten.KeySpace) ||
		raw.Pad.Pressed(ebiten.StandardGamepadButtonRightBottom) ||
		len(raw.Touches) > 0
	s.Activate = s.Continue || raw.MouseLeft || raw.KeyHeld(ebiten.KeyEnter)
	return s
}
