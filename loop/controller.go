package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/config"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/hud"
	"github.com/milk9111/platformer2d/input"
)

var (
	// ErrExit is returned from Tick when the player asks to quit.
	ErrExit = errors.New("loop: exit requested")
	// ErrInvalidLevelIndex is the panic payload for an out of range level.
	ErrInvalidLevelIndex = errors.New("loop: invalid level index")
)

type State int

const (
	StateAwaitingActivation State = iota
	StateLoading
	StatePlaying
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingActivation:
		return "awaiting-activation"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Option func(*Controller)

// WithLevelUpdates makes the controller apply level file edits between
// ticks. An update to the level being played reloads it.
func WithLevelUpdates(updates <-chan content.LevelUpdate) Option {
	return func(c *Controller) { c.updates = updates }
}

// WithContext sets the context handed to the asset pipeline.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// Controller sequences activation, loading and level play.
type Controller struct {
	cfg     config.Config
	loader  Loader
	unifier Unifier
	poller  input.Poller
	factory Factory
	logger  *slog.Logger
	ctx     context.Context
	updates <-chan content.LevelUpdate

	hud *hud.Renderer
	fps hud.FPSCounter

	state     State
	err       error
	content   *content.Content
	numLevels int
	index     int
	session   Session
	sessionID uuid.UUID
	lastTick  common.Tick

	prevActivate bool
	prevContinue bool
}

func New(cfg config.Config, loader Loader, unifier Unifier, poller input.Poller, factory Factory, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		cfg:       cfg,
		loader:    loader,
		unifier:   unifier,
		poller:    poller,
		factory:   factory,
		logger:    logger.With("component", "loop"),
		ctx:       context.Background(),
		hud:       hud.NewRenderer(nil, cfg.HUD.WarningThreshold, cfg.Screen.Width, cfg.Screen.Height),
		numLevels: cfg.Levels.Count,
		index:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) LevelIndex() int   { return c.index }
func (c *Controller) Session() Session  { return c.session }
func (c *Controller) SessionID() string { return c.sessionID.String() }
func (c *Controller) Err() error        { return c.err }
func (c *Controller) FPS() int          { return c.fps.FPS() }

// Content is nil until loading has finished.
func (c *Controller) Content() *content.Content { return c.content }

// Tick runs one frame: poll, unify, then the current state's step.
func (c *Controller) Tick(tick common.Tick) error {
	c.lastTick = tick
	c.fps.Sample(tick.Total)

	snap := c.unifier.Unify(c.poller.Poll())
	activate := snap.Activate && !c.prevActivate
	cont := snap.Continue && !c.prevContinue
	c.prevActivate = snap.Activate
	c.prevContinue = snap.Continue

	switch c.state {
	case StateAwaitingActivation:
		c.hud.UpdateStart()
		if activate {
			c.activate()
		}
	case StateLoading:
		c.poll()
	case StatePlaying:
		return c.play(tick, snap, cont)
	case StateFailed:
		c.hud.UpdateFailure()
	}
	return nil
}

func (c *Controller) activate() {
	if err := c.loader.Init(c.ctx); err != nil && !errors.Is(err, content.ErrAlreadyRunning) {
		c.fail(err)
		return
	}
	c.setState(StateLoading)
	c.poll()
}

func (c *Controller) poll() {
	p := c.loader.Progress()
	if p.BaseReady && !c.hud.HasFont() {
		if ct := c.loader.Content(); ct != nil {
			c.hud.SetFont(ct.HUDFont)
		}
	}
	if !p.FullyReady {
		if err := c.loader.Err(); err != nil {
			c.fail(err)
		}
		return
	}

	c.content = c.loader.Content()
	if n := c.content.NumLevels(); n != c.numLevels {
		c.fail(fmt.Errorf("loop: loaded %d levels, configured %d", n, c.numLevels))
		return
	}
	c.content.PlayMusic()
	c.setState(StatePlaying)
	c.reconstructAt(c.cfg.Levels.Start)
}

func (c *Controller) play(tick common.Tick, snap input.Snapshot, cont bool) error {
	c.drainLevelUpdates()
	if c.state != StatePlaying {
		return nil
	}
	if snap.Buttons.Back {
		return ErrExit
	}

	s := c.session
	s.Update(tick, snap)
	NotifyIfMoving(s, c.unifier)

	if cont {
		switch {
		case !s.PlayerAlive():
			s.StartNewLife()
		case s.TimeRemaining() <= 0 && s.ReachedExit():
			c.Advance()
		case s.TimeRemaining() <= 0:
			c.ReloadCurrent()
		}
	}

	c.unifier.Update(tick)
	return nil
}

func (c *Controller) drainLevelUpdates() {
	reload := false
drain:
	for c.updates != nil {
		select {
		case u, ok := <-c.updates:
			if !ok {
				c.updates = nil
				break drain
			}
			if err := c.content.SetLevel(u.Index, u.Lines); err != nil {
				c.logger.Warn("level update dropped", "index", u.Index, "err", err)
				continue
			}
			c.logger.Info("level updated", "index", u.Index, "lines", len(u.Lines))
			reload = reload || u.Index == c.index
		default:
			break drain
		}
	}
	if reload {
		c.ReloadCurrent()
	}
}

// Advance replaces the session with the next level, wrapping to 0.
func (c *Controller) Advance() {
	c.reconstructAt((c.index + 1) % c.numLevels)
}

// ReloadCurrent rebuilds the session at the current level.
func (c *Controller) ReloadCurrent() {
	c.reconstructAt(c.index)
}

func (c *Controller) reconstructAt(index int) {
	if index < 0 || index >= c.numLevels {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidLevelIndex, index, c.numLevels))
	}

	if c.session != nil {
		c.session.Dispose()
		c.logger.Debug("session disposed", "level", c.index, "session", c.sessionID)
	}
	c.session = nil
	c.index = index

	s, err := c.factory(index, c.content)
	if err != nil {
		c.fail(fmt.Errorf("loop: level %d: %w", index, err))
		return
	}
	c.session = s
	c.sessionID = uuid.New()
	c.logger.Info("session started", "level", index, "session", c.sessionID)
}

func (c *Controller) fail(err error) {
	c.err = err
	c.logger.Error("game failed", "state", c.state, "err", err)
	c.setState(StateFailed)
	c.content.StopMusic()
}

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	c.logger.Debug("state changed", "from", c.state, "to", s)
	c.state = s
}

// Draw renders the current state on screen.
func (c *Controller) Draw(screen *ebiten.Image) {
	switch c.state {
	case StateAwaitingActivation:
		c.hud.DrawStart(screen, c.cfg.Title)
	case StateLoading:
		var pixel *ebiten.Image
		p := c.loader.Progress()
		if p.BaseReady {
			pixel = c.loader.Content().Pixel
		}
		c.hud.DrawLoading(screen, pixel, p)
	case StateFailed:
		c.hud.DrawFailure(screen, c.err)
	case StatePlaying:
		s := c.session
		s.Draw(screen, c.lastTick)
		c.unifier.Draw(screen, c.content.VirtualControlArrow)
		c.hud.Draw(screen, c.content.Overlays, hud.Status{
			TimeRemaining: s.TimeRemaining(),
			ReachedExit:   s.ReachedExit(),
			PlayerAlive:   s.PlayerAlive(),
			Score:         s.Score(),
			FPS:           c.fps.FPS(),
		})
	}
}
