package hud

import (
	"fmt"
	"image/color"
	"time"

	"golang.org/x/image/colornames"
)

var (
	NormalColor  color.Color = colornames.Yellow
	WarningColor color.Color = colornames.Red
)

// Overlay is the status texture chosen for the frame.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayWin
	OverlayLose
	OverlayDied
)

func (o Overlay) String() string {
	switch o {
	case OverlayWin:
		return "win"
	case OverlayLose:
		return "lose"
	case OverlayDied:
		return "died"
	}
	return "none"
}

// TimeColor blinks the timer once per second while under threshold, unless
// the exit has been reached.
func TimeColor(remaining time.Duration, reachedExit bool, threshold time.Duration) color.Color {
	if reachedExit || remaining > threshold {
		return NormalColor
	}
	if int64(remaining/time.Second)%2 == 0 {
		return NormalColor
	}
	return WarningColor
}

// SelectOverlay picks at most one status overlay. Timeout outranks death.
func SelectOverlay(remaining time.Duration, reachedExit, alive bool) Overlay {
	switch {
	case remaining <= 0 && reachedExit:
		return OverlayWin
	case remaining <= 0:
		return OverlayLose
	case !alive:
		return OverlayDied
	}
	return OverlayNone
}

// FormatTime renders remaining time as "TIME: mm:ss", rounding down.
func FormatTime(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int64(remaining / time.Second)
	return fmt.Sprintf("TIME: %02d:%02d", secs/60, secs%60)
}

func FormatScore(score int) string {
	return fmt.Sprintf("SCORE: %d", score)
}
