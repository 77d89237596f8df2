package input

import (
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenPoller reads keyboard, first gamepad, touch and mouse state from
// ebiten.
type EbitenPoller struct {
	touchSeen bool
	keys      []ebiten.Key
	touchIDs  []ebiten.TouchID
	padIDs    []ebiten.GamepadID
}

func NewEbitenPoller() *EbitenPoller {
	return &EbitenPoller{touchSeen: runtime.GOOS == "android" || runtime.GOOS == "ios"}
}

func (p *EbitenPoller) Poll() Raw {
	var raw Raw

	p.keys = inpututil.AppendPressedKeys(p.keys[:0])
	raw.Keys = append([]ebiten.Key(nil), p.keys...)

	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		raw.Touches = append(raw.Touches, TouchPoint{ID: id, X: float64(x), Y: float64(y)})
	}
	if len(raw.Touches) > 0 {
		p.touchSeen = true
	}
	raw.TouchCapable = p.touchSeen

	p.padIDs = ebiten.AppendGamepadIDs(p.padIDs[:0])
	if len(p.padIDs) > 0 {
		id := p.padIDs[0]
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			raw.Pad.Connected = true
			for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
				raw.Pad.Buttons[b] = ebiten.IsStandardGamepadButtonPressed(id, b)
			}
			raw.Pad.LeftX = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		}
	}

	raw.MouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return raw
}
