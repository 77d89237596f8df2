// Command sheetview previews a sprite sheet from the asset manifest as an
// animation.
package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer2d/assets"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/level"
	"github.com/milk9111/platformer2d/prefabs"
	"github.com/urfave/cli/v3"
)

const viewSize = 256

type viewer struct {
	key  string
	anim *level.Animation
	flip bool
}

func (v *viewer) Update() error {
	v.anim.Update()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	v.anim.Draw(screen, viewSize/2, viewSize/2+float64(v.anim.FrameSize)/2, v.flip)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  frame %d/%d", v.key, v.anim.Frame()+1, v.anim.FrameCount))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

func sheetKeys() []string {
	var keys []string
	for _, e := range content.DefaultManifest(0).Entries {
		switch e.Slot.Group {
		case content.GroupPlayer, content.GroupMonsterIdle, content.GroupMonsterRun, content.GroupGem:
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func main() {
	cmd := &cli.Command{
		Name:  "sheetview",
		Usage: "preview a sprite sheet animation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sheet", Value: "sprites/player/run.png", Usage: "asset key of the sheet"},
			&cli.StringFlag{Name: "fps", Value: "12", Usage: "frames per second"},
			&cli.StringFlag{Name: "frames", Value: "0", Usage: "frame count, 0 for the whole strip"},
			&cli.StringFlag{Name: "assets", Usage: "directory whose files override the embedded assets"},
			&cli.BoolFlag{Name: "flip", Usage: "mirror horizontally"},
			&cli.BoolFlag{Name: "list", Usage: "print the sheet keys and exit"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("list") {
				for _, k := range sheetKeys() {
					fmt.Println(k)
				}
				return nil
			}

			fps, err := strconv.ParseFloat(cmd.String("fps"), 64)
			if err != nil {
				return fmt.Errorf("--fps: %w", err)
			}
			frames, err := strconv.Atoi(cmd.String("frames"))
			if err != nil {
				return fmt.Errorf("--frames: %w", err)
			}

			key := cmd.String("sheet")
			sheet, err := assets.NewStore(cmd.String("assets")).LoadImage(key)
			if err != nil {
				return err
			}
			anim := level.NewAnimation(sheet, prefabs.AnimationDefSpec{FrameCount: frames, FPS: fps, Loop: true})

			ebiten.SetWindowSize(viewSize*2, viewSize*2)
			ebiten.SetWindowTitle("sheetview: " + key)
			return ebiten.RunGame(&viewer{key: key, anim: anim, flip: cmd.Bool("flip")})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("sheetview failed", "err", err)
		os.Exit(1)
	}
}
