package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/assets"
	"github.com/milk9111/platformer2d/config"
	"github.com/milk9111/platformer2d/level"
	"github.com/milk9111/platformer2d/levels"
	"github.com/milk9111/platformer2d/loop"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "platformer2d",
		Usage: "run the platformer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML file overlaid on the built-in configuration"},
			&cli.BoolFlag{Name: "debug", Usage: "debug logging and the TPS/FPS overlay"},
			&cli.StringFlag{Name: "level", Usage: "index of the first level to play"},
			&cli.StringFlag{Name: "watch", Usage: "level directory to read and watch for edits"},
			&cli.StringFlag{Name: "assets", Usage: "directory whose files override the embedded assets"},
			&cli.BoolFlag{Name: "monitor-base", Usage: "use the first monitor instead of the primary one"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("platformer2d failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	slog.SetDefault(logger)

	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if s := cmd.String("level"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("--level: %w", err)
		}
		cfg.Levels.Start = n
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if cmd.Bool("monitor-base") {
		if m := baseMonitor(ebiten.AppendMonitors(nil)); m != nil {
			ebiten.SetMonitor(m)
		} else {
			logger.Warn("no monitors reported, keeping the default")
		}
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Title)

	opts, err := level.LoadOptions(cfg.Levels.TimeLimit, float64(cfg.Screen.Width), logger)
	if err != nil {
		return err
	}

	loopOpts := []loop.Option{loop.WithContext(ctx)}
	if dir := cmd.String("watch"); dir != "" {
		levels.Dir = dir
		w, err := levels.NewWatcher(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		defer w.Close()
		go func() {
			for err := range w.Errors {
				logger.Warn("level watcher", "err", err)
			}
		}()
		loopOpts = append(loopOpts, loop.WithLevelUpdates(w.Updates))
		logger.Info("watching levels", "dir", dir)
	}

	store := assets.NewStore(cmd.String("assets"))
	game := NewGame(cfg, store, level.NewFactory(opts), logger, cmd.Bool("debug"), loopOpts...)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func newLogger(debug bool) *slog.Logger {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// baseMonitor is the first reported monitor, or nil when there are none.
func baseMonitor(monitors []*ebiten.MonitorType) *ebiten.MonitorType {
	if len(monitors) == 0 {
		return nil
	}
	return monitors[0]
}
