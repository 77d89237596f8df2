package level

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/prefabs"
)

// Animation plays a horizontal strip of square frames. A nil sheet yields an
// animation that draws nothing.
type Animation struct {
	Sheet      *ebiten.Image
	FrameSize  int
	FrameCount int
	Loop       bool

	current     int
	tick        int
	ticksPerFrm int
}

func NewAnimation(sheet *ebiten.Image, def prefabs.AnimationDefSpec) *Animation {
	fps := def.FPS
	if fps <= 0 {
		fps = 12
	}
	a := &Animation{
		Loop:        def.Loop,
		ticksPerFrm: int(math.Max(1, math.Round(common.TicksPerSecond/fps))),
	}
	if sheet == nil {
		return a
	}
	b := sheet.Bounds()
	a.Sheet = sheet
	a.FrameSize = b.Dy()
	maxFrames := b.Dx() / max(1, a.FrameSize)
	a.FrameCount = def.FrameCount
	if a.FrameCount <= 0 || a.FrameCount > maxFrames {
		a.FrameCount = maxFrames
	}
	return a
}

// Update advances one tick.
func (a *Animation) Update() {
	if a == nil || a.FrameCount <= 1 {
		return
	}
	a.tick++
	if a.tick < a.ticksPerFrm {
		return
	}
	a.tick = 0
	a.current++
	if a.current >= a.FrameCount {
		if a.Loop {
			a.current = 0
		} else {
			a.current = a.FrameCount - 1
		}
	}
}

func (a *Animation) Reset() {
	if a == nil {
		return
	}
	a.current = 0
	a.tick = 0
}

func (a *Animation) Frame() int { return a.current }

// Draw draws the current frame with its bottom center at x, y, mirrored
// when flip is set.
func (a *Animation) Draw(screen *ebiten.Image, x, y float64, flip bool) {
	if a == nil || a.Sheet == nil || a.FrameCount == 0 {
		return
	}
	sx := a.current * a.FrameSize
	frame := a.Sheet.SubImage(image.Rect(sx, 0, sx+a.FrameSize, a.FrameSize)).(*ebiten.Image)

	size := float64(a.FrameSize)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	if flip {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(size, 0)
	}
	op.GeoM.Translate(math.Round(x-size/2), math.Round(y-size))
	screen.DrawImage(frame, op)
}
