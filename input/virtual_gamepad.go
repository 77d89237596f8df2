package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
)

// Region is an axis-aligned hit area in base screen coordinates.
type Region struct {
	X, Y, W, H float64
}

func (r Region) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout places the overlay controls.
type Layout struct {
	Left  Region
	Right Region
	Jump  Region
}

// StripLayout builds full-height strips: left and right arrows at the left
// edge, jump from jumpStart (fraction of width) to the right edge.
func StripLayout(screenW, screenH, arrowW, jumpStart float64) Layout {
	jx := screenW * jumpStart
	return Layout{
		Left:  Region{X: 0, Y: 0, W: arrowW, H: screenH},
		Right: Region{X: arrowW, Y: 0, W: arrowW, H: screenH},
		Jump:  Region{X: jx, Y: 0, W: screenW - jx, H: screenH},
	}
}

// HintTiming controls the cosmetic hint fade.
type HintTiming struct {
	IdleDelay time.Duration
	FadeIn    time.Duration
}

// HintLatch flips once and stays set.
type HintLatch struct {
	set bool
}

func (l *HintLatch) Set() { l.set = true }

func (l *HintLatch) IsSet() bool { return l.set }

// VirtualGamePad merges touches on the on-screen overlay with the physical
// devices and owns the movement hint shown to touch players.
type VirtualGamePad struct {
	layout    Layout
	transform ebiten.GeoM
	inverse   ebiten.GeoM
	timing    HintTiming

	latch        HintLatch
	touchCapable bool
	idle         time.Duration
	opacity      float64
}

// NewVirtualGamePad creates an overlay. transform maps base coordinates to
// screen coordinates; touches are mapped back through its inverse.
func NewVirtualGamePad(layout Layout, transform ebiten.GeoM, timing HintTiming) *VirtualGamePad {
	v := &VirtualGamePad{layout: layout, timing: timing}
	v.SetTransform(transform)
	return v
}

// SetTransform replaces the base-to-screen transform. A singular transform
// is treated as identity.
func (v *VirtualGamePad) SetTransform(transform ebiten.GeoM) {
	if !transform.IsInvertible() {
		transform = ebiten.GeoM{}
	}
	v.transform = transform
	v.inverse = transform
	v.inverse.Invert()
}

func (v *VirtualGamePad) Layout() Layout { return v.layout }

// Unify builds the tick's snapshot from raw device state.
func (v *VirtualGamePad) Unify(raw Raw) Snapshot {
	v.touchCapable = raw.TouchCapable || v.touchCapable
	return buildSnapshot(raw, v.touchButtons(raw.Touches))
}

func (v *VirtualGamePad) touchButtons(touches []TouchPoint) Buttons {
	var b Buttons
	for _, t := range touches {
		x, y := v.inverse.Apply(t.X, t.Y)
		switch {
		case v.layout.Left.Contains(x, y):
			b.Left = true
		case v.layout.Right.Contains(x, y):
			b.Right = true
		case v.layout.Jump.Contains(x, y):
			b.Jump = true
		}
	}
	return b
}

// NotifyPlayerIsMoving permanently hides the hint. Safe to call every tick.
func (v *VirtualGamePad) NotifyPlayerIsMoving() {
	v.latch.Set()
}

// HintVisible reports whether the hint overlay may be drawn.
func (v *VirtualGamePad) HintVisible() bool {
	return v.touchCapable && !v.latch.IsSet()
}

// Opacity is the current hint fade in [0, 1].
func (v *VirtualGamePad) Opacity() float64 {
	return v.opacity
}

// Update advances the hint fade. It never changes button state or the latch.
func (v *VirtualGamePad) Update(tick common.Tick) {
	if v.latch.IsSet() {
		v.opacity = 0
		return
	}
	v.idle += tick.Elapsed
	if v.idle < v.timing.IdleDelay {
		return
	}
	if v.timing.FadeIn <= 0 {
		v.opacity = 1
		return
	}
	v.opacity = common.Approach(v.opacity, 1, tick.Elapsed.Seconds()/v.timing.FadeIn.Seconds())
}

// Draw renders the arrow hints centered near the bottom of their strips.
// arrow points right; the left one is mirrored.
func (v *VirtualGamePad) Draw(screen, arrow *ebiten.Image) {
	if screen == nil || arrow == nil || !v.HintVisible() || v.opacity <= 0 {
		return
	}
	aw := float64(arrow.Bounds().Dx())
	ah := float64(arrow.Bounds().Dy())

	draw := func(r Region, mirror bool) {
		op := &ebiten.DrawImageOptions{}
		if mirror {
			op.GeoM.Scale(-1, 1)
			op.GeoM.Translate(aw, 0)
		}
		op.GeoM.Translate(r.X+(r.W-aw)/2, r.Y+r.H-ah-16)
		op.GeoM.Concat(v.transform)
		op.ColorScale.ScaleAlpha(float32(v.opacity))
		screen.DrawImage(arrow, op)
	}
	draw(v.layout.Left, true)
	draw(v.layout.Right, false)
}
