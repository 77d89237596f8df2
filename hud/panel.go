package hud

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// Panel is a centered full-screen message: a title over a detail line.
type Panel struct {
	ui     *ebitenui.UI
	title  *widget.Text
	detail *widget.Text
}

// NewPanel builds the panel widgets. A nil face uses the builtin bitmap font.
func NewPanel(face text.Face, title string, titleColor color.Color, width, height int) *Panel {
	if face == nil {
		face = text.NewGoXFace(basicfont.Face7x13)
	}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	p := &Panel{}
	p.title = widget.NewText(
		widget.TextOpts.Text(title, &face, titleColor),
		widget.TextOpts.WidgetOpts(center),
	)
	p.detail = widget.NewText(
		widget.TextOpts.Text("", &face, colornames.White),
		widget.TextOpts.WidgetOpts(center),
	)

	box := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 200})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width/2, height/4),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	box.AddChild(p.title)
	box.AddChild(p.detail)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(box)
	p.ui = &ebitenui.UI{Container: root}
	return p
}

func (p *Panel) Title() string  { return p.title.Label }
func (p *Panel) Detail() string { return p.detail.Label }

// SetDetail replaces the detail line, relaying out only on change.
func (p *Panel) SetDetail(s string) {
	if p.detail.Label == s {
		return
	}
	p.detail.Label = s
	p.ui.Container.RequestRelayout()
}

func (p *Panel) Update() { p.ui.Update() }

func (p *Panel) Draw(screen *ebiten.Image) { p.ui.Draw(screen) }
