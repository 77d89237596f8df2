package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/config"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/input"
	"github.com/milk9111/platformer2d/loop"
)

type Game struct {
	cfg   config.Config
	debug bool
	tick  common.Tick

	controller *loop.Controller
}

func NewGame(cfg config.Config, store content.Store, factory loop.Factory, logger *slog.Logger, debug bool, opts ...loop.Option) *Game {
	pipeline := content.NewPipeline(content.StoreFetcher(store), content.DefaultManifest(cfg.Levels.Count), logger)

	layout := input.StripLayout(
		float64(cfg.Screen.Width), float64(cfg.Screen.Height),
		cfg.Touch.ArrowWidth, cfg.Touch.JumpRegionStart,
	)
	// ebiten reports touches in layout coordinates, so the overlay needs no
	// extra transform
	pad := input.NewVirtualGamePad(layout, ebiten.GeoM{}, input.HintTiming{
		IdleDelay: cfg.Hint.IdleDelay,
		FadeIn:    cfg.Hint.FadeIn,
	})

	return &Game{
		cfg:        cfg,
		debug:      debug,
		controller: loop.New(cfg, pipeline, pad, input.NewEbitenPoller(), factory, logger, opts...),
	}
}

func (g *Game) Update() error {
	g.tick = g.tick.Next()
	err := g.controller.Tick(g.tick)
	if errors.Is(err, loop.ErrExit) {
		return ebiten.Termination
	}
	return err
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.controller.Draw(screen)
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.2f  FPS: %.2f  %s", ebiten.ActualTPS(), ebiten.ActualFPS(), g.controller.State()), 0, g.cfg.Screen.Height-16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Screen.Width), float64(g.cfg.Screen.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
