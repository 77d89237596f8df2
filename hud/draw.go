package hud

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/platformer2d/content"
	"golang.org/x/image/colornames"
)

const (
	fontSize  = 18
	margin    = 8
	barWidth  = 400
	barHeight = 12

	debugGlyphWidth = 6

	startPrompt  = "click or press enter to start"
	failureTitle = "failed to load the game"
)

// Status is the session state a frame's HUD is derived from.
type Status struct {
	TimeRemaining time.Duration
	ReachedExit   bool
	PlayerAlive   bool
	Score         int
	FPS           int
}

// Renderer draws HUD text and overlays. A Renderer without a font draws
// images only.
type Renderer struct {
	face      *text.GoTextFace
	threshold time.Duration
	width     float64
	height    float64

	start   *Panel
	failure *Panel
}

func NewRenderer(src *text.GoTextFaceSource, threshold time.Duration, width, height int) *Renderer {
	r := &Renderer{threshold: threshold, width: float64(width), height: float64(height)}
	r.SetFont(src)
	return r
}

// SetFont installs the face once the base content is ready.
func (r *Renderer) SetFont(src *text.GoTextFaceSource) {
	r.start, r.failure = nil, nil
	if src == nil {
		r.face = nil
		return
	}
	r.face = &text.GoTextFace{Source: src, Size: fontSize}
}

func (r *Renderer) HasFont() bool { return r.face != nil }

// Draw renders the playing HUD: time, score, fps and the status overlay.
func (r *Renderer) Draw(screen *ebiten.Image, overlays [content.OverlayCount]*ebiten.Image, st Status) {
	lineH := float64(fontSize) * 1.2
	r.shadowed(screen, FormatTime(st.TimeRemaining), margin, margin, TimeColor(st.TimeRemaining, st.ReachedExit, r.threshold))
	r.shadowed(screen, FormatScore(st.Score), margin, margin+lineH, colornames.Yellow)
	r.shadowed(screen, fmt.Sprintf("FPS: %d", st.FPS), margin, margin+2*lineH, colornames.White)

	var img *ebiten.Image
	switch SelectOverlay(st.TimeRemaining, st.ReachedExit, st.PlayerAlive) {
	case OverlayWin:
		img = overlays[content.OverlayWin]
	case OverlayLose:
		img = overlays[content.OverlayLose]
	case OverlayDied:
		img = overlays[content.OverlayDied]
	}
	if img == nil {
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate((r.width-float64(b.Dx()))/2, (r.height-float64(b.Dy()))/2)
	screen.DrawImage(img, op)
}

// DrawLoading renders the progress bar with pixel and, once a font is set,
// the "loading: n / total" line.
func (r *Renderer) DrawLoading(screen, pixel *ebiten.Image, p content.Progress) {
	x := (r.width - barWidth) / 2
	y := r.height/2 + fontSize

	if pixel != nil && p.Total > 0 {
		r.rect(screen, pixel, x, y, barWidth, barHeight, color.Gray{Y: 0x40})
		w := barWidth * float64(p.Counter) / float64(p.Total)
		r.rect(screen, pixel, x, y, w, barHeight, colornames.Yellow)
	}
	r.centered(screen, fmt.Sprintf("loading: %d / %d", p.Counter, p.Total), r.height/2-fontSize, colornames.White)
}

// DrawStart renders the activation panel.
func (r *Renderer) DrawStart(screen *ebiten.Image, title string) {
	r.startPanel(title).Draw(screen)
}

// DrawFailure renders the failure panel with err as its detail.
func (r *Renderer) DrawFailure(screen *ebiten.Image, err error) {
	r.failurePanel(err).Draw(screen)
}

// UpdateStart forwards input to the start panel once it has been drawn.
func (r *Renderer) UpdateStart() {
	if r.start != nil {
		r.start.Update()
	}
}

// UpdateFailure forwards input to the failure panel once it has been drawn.
func (r *Renderer) UpdateFailure() {
	if r.failure != nil {
		r.failure.Update()
	}
}

func (r *Renderer) startPanel(title string) *Panel {
	if r.start == nil || r.start.Title() != title {
		r.start = NewPanel(r.panelFace(), title, colornames.Yellow, int(r.width), int(r.height))
		r.start.SetDetail(startPrompt)
	}
	return r.start
}

func (r *Renderer) failurePanel(err error) *Panel {
	if r.failure == nil {
		r.failure = NewPanel(r.panelFace(), failureTitle, colornames.Red, int(r.width), int(r.height))
	}
	r.failure.SetDetail(FailureDetail(err))
	return r.failure
}

func (r *Renderer) panelFace() text.Face {
	if r.face == nil {
		return nil
	}
	return r.face
}

// FailureDetail is the failure panel's detail line for err.
func FailureDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (r *Renderer) shadowed(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	if r.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+1, y+1)
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, s, r.face, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, r.face, op)
}

func (r *Renderer) centered(screen *ebiten.Image, s string, y float64, c color.Color) {
	if r.face == nil {
		// no font before the base content loads
		ebitenutil.DebugPrintAt(screen, s, int(r.width-debugGlyphWidth*float64(len(s)))/2, int(y))
		return
	}
	w, _ := text.Measure(s, r.face, 0)
	r.shadowed(screen, s, (r.width-w)/2, y, c)
}

func (r *Renderer) rect(screen, pixel *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	b := pixel.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(pixel, op)
}
