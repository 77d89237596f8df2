package loop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/input"
)

// Session is one playable level. The controller holds at most one live
// Session and disposes it before installing the next.
type Session interface {
	Update(tick common.Tick, in input.Snapshot)
	Draw(screen *ebiten.Image, tick common.Tick)

	PlayerAlive() bool
	PlayerVelocity() (vx, vy float64)
	TimeRemaining() time.Duration
	ReachedExit() bool
	Score() int

	// StartNewLife respawns the player in place.
	StartNewLife()
	// Dispose releases the session. Calling it again is a no-op.
	Dispose()
}

// Factory constructs the session for level index from loaded content.
type Factory func(index int, c *content.Content) (Session, error)

// Loader is the asset pipeline as seen by the controller.
type Loader interface {
	Init(ctx context.Context) error
	Progress() content.Progress
	Err() error
	Content() *content.Content
}

// Unifier turns raw device state into the tick's snapshot and owns the touch
// hint.
type Unifier interface {
	Unify(raw input.Raw) input.Snapshot
	NotifyPlayerIsMoving()
	Update(tick common.Tick)
	Draw(screen, arrow *ebiten.Image)
}

var (
	_ Loader  = (*content.Pipeline)(nil)
	_ Unifier = (*input.VirtualGamePad)(nil)
)

// NotifyIfMoving latches u's hint when s reports a non-zero player velocity.
func NotifyIfMoving(s Session, u Unifier) bool {
	if vx, vy := s.PlayerVelocity(); vx == 0 && vy == 0 {
		return false
	}
	u.NotifyPlayerIsMoving()
	return true
}
