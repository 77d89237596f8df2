package level

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/input"
	"github.com/milk9111/platformer2d/loop"
	"github.com/milk9111/platformer2d/prefabs"
)

const (
	GemPoints = 30
	// PointsPerSecond is awarded for each second left on the clock at the
	// exit.
	PointsPerSecond = 5
	// drainRate is how many clock seconds drain per real second once the
	// exit is reached.
	drainRate = 100

	gemRadius = common.TileWidth / 3
)

type Options struct {
	TimeLimit time.Duration
	Player    prefabs.PlayerSpec
	Monster   prefabs.MonsterSpec
	// ViewWidth is the visible width used for camera scrolling.
	ViewWidth float64
	Logger    *slog.Logger
}

// LoadOptions reads the player and monster tuning prefabs.
func LoadOptions(timeLimit time.Duration, viewWidth float64, logger *slog.Logger) (Options, error) {
	ps, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return Options{}, err
	}
	ms, err := prefabs.LoadMonsterSpec()
	if err != nil {
		return Options{}, err
	}
	return Options{TimeLimit: timeLimit, Player: ps, Monster: ms, ViewWidth: viewWidth, Logger: logger}, nil
}

// NewFactory returns a loop.Factory building sessions from the content's
// level lines.
func NewFactory(opts Options) loop.Factory {
	return func(index int, c *content.Content) (loop.Session, error) {
		lines, ok := c.LevelLines(index)
		if !ok {
			return nil, fmt.Errorf("level: no level %d loaded", index)
		}
		return NewSession(index, lines, c, opts)
	}
}

type gem struct {
	at        Point
	collected bool
}

var _ loop.Session = (*Session)(nil)

// Session is one play-through of a parsed level.
type Session struct {
	index   int
	grid    *Grid
	content *content.Content
	opts    Options
	logger  *slog.Logger

	world    *physicsWorld
	player   *player
	monsters []*monster
	gems     []gem
	camera   camera

	timeRemaining time.Duration
	reachedExit   bool
	score         int
	elapsed       time.Duration
	disposed      bool
}

func NewSession(index int, lines []string, c *content.Content, opts Options) (*Session, error) {
	grid, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", index, err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.ViewWidth <= 0 {
		opts.ViewWidth = common.ScreenWidth
	}

	s := &Session{
		index:         index,
		grid:          grid,
		content:       c,
		opts:          opts,
		logger:        opts.Logger.With("component", "level", "level", index),
		timeRemaining: opts.TimeLimit,
	}

	s.world = newPhysicsWorld(grid, opts.Player.Gravity)
	s.world.addPlayer(grid.Start, opts.Player.Collider.Width, opts.Player.Collider.Height)
	s.player = newPlayer(opts.Player, s.world, c)
	s.player.reset(grid.Start)

	for _, spawn := range grid.Monsters {
		s.monsters = append(s.monsters, newMonster(spawn, opts.Monster, c))
	}
	for _, at := range grid.Gems {
		s.gems = append(s.gems, gem{at: at})
	}

	worldW, _ := grid.PixelSize()
	s.camera = newCamera(opts.ViewWidth, worldW)
	s.camera.SnapTo(grid.Start.X)

	s.logger.Debug("level built", "width", grid.Width, "height", grid.Height,
		"gems", len(s.gems), "monsters", len(s.monsters))
	return s, nil
}

func (s *Session) Update(tick common.Tick, in input.Snapshot) {
	if s.disposed {
		return
	}
	dt := tick.Seconds()
	s.elapsed += tick.Elapsed

	playing := false
	switch {
	case !s.player.alive || s.timeRemaining <= 0:
		s.player.update(dt, input.Snapshot{})
	case s.reachedExit:
		s.drainTime(dt)
		s.player.update(dt, input.Snapshot{})
	default:
		s.timeRemaining = max(0, s.timeRemaining-tick.Elapsed)
		s.player.update(dt, in)
		playing = true
	}

	s.world.step(dt)

	if playing {
		s.checkFall()
		s.updateMonsters(tick.Elapsed)
		s.collectGems()
		s.checkExit()
	}

	s.camera.Follow(s.world.feet().X)
	s.player.anims[s.player.current].Update()
}

func (s *Session) drainTime(dt float64) {
	secs := min(int(math.Round(dt*drainRate)), int(math.Ceil(s.timeRemaining.Seconds())))
	s.timeRemaining = max(0, s.timeRemaining-time.Duration(secs)*time.Second)
	s.score += secs * PointsPerSecond
}

func (s *Session) checkFall() {
	_, worldH := s.grid.PixelSize()
	if s.player.bounds().Y > worldH {
		s.player.kill(content.SoundPlayerFall)
		s.logger.Debug("player fell")
	}
}

func (s *Session) updateMonsters(elapsed time.Duration) {
	pb := s.player.bounds()
	for _, m := range s.monsters {
		m.update(elapsed, s.grid)
		if s.player.alive && m.bounds().Intersects(pb) {
			s.player.kill(content.SoundPlayerKilled)
			s.logger.Debug("player killed", "monster", m.kind)
		}
	}
}

func (s *Session) collectGems() {
	if !s.player.alive {
		return
	}
	pb := s.player.bounds()
	for i := range s.gems {
		g := &s.gems[i]
		if g.collected || !pb.IntersectsCircle(g.at, gemRadius) {
			continue
		}
		g.collected = true
		s.score += GemPoints
		s.content.PlaySound(content.SoundGemCollected)
	}
}

func (s *Session) checkExit() {
	if !s.player.alive || !s.world.grounded {
		return
	}
	target := s.grid.Exit
	target.Y -= common.TileHeight / 4
	if s.player.bounds().Contains(target) {
		s.reachedExit = true
		s.player.celebrate()
		s.content.PlaySound(content.SoundExitReached)
		s.logger.Info("exit reached", "remaining", s.timeRemaining, "score", s.score)
	}
}

func (s *Session) PlayerAlive() bool { return s.player.alive }

// PlayerVelocity is the body velocity in px/s. The vertical part reads zero
// while grounded so the contact solver's settling isn't seen as movement.
func (s *Session) PlayerVelocity() (float64, float64) {
	if s.disposed {
		return 0, 0
	}
	v := s.world.velocity()
	if s.world.grounded {
		v.Y = 0
	}
	return v.X, v.Y
}

func (s *Session) TimeRemaining() time.Duration { return s.timeRemaining }
func (s *Session) ReachedExit() bool            { return s.reachedExit }
func (s *Session) Score() int                   { return s.score }
func (s *Session) Index() int                   { return s.index }

// StartNewLife respawns the player at the start. Score and clock carry over.
func (s *Session) StartNewLife() {
	if s.disposed {
		return
	}
	s.player.reset(s.grid.Start)
	s.camera.SnapTo(s.grid.Start.X)
}

func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.world.dispose()
	s.logger.Debug("level disposed")
}

func (s *Session) Draw(screen *ebiten.Image, tick common.Tick) {
	if s.disposed || screen == nil {
		return
	}
	s.drawBackground(screen)
	camX := s.camera.X

	for y := 0; y < s.grid.Height; y++ {
		for x := 0; x < s.grid.Width; x++ {
			t := s.grid.At(x, y)
			if t.Texture == "" || s.content == nil {
				continue
			}
			img := s.content.Tiles[t.Texture]
			if img == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*common.TileWidth)-camX, float64(y*common.TileHeight))
			screen.DrawImage(img, op)
		}
	}

	if s.content != nil && s.content.Gem != nil {
		gb := s.content.Gem.Bounds()
		t := tick.Total.Seconds()
		for _, g := range s.gems {
			if g.collected {
				continue
			}
			bounce := math.Sin(t*3+g.at.X*0.75) * 0.18 * float64(gb.Dy())
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(g.at.X-float64(gb.Dx())/2-camX, g.at.Y-float64(gb.Dy())/2+bounce)
			screen.DrawImage(s.content.Gem, op)
		}
	}

	for _, m := range s.monsters {
		m.draw(screen, camX)
	}
	s.player.draw(screen, camX)
}

// drawBackground tiles the level's variant of each layer, scrolling farther
// layers slower.
func (s *Session) drawBackground(screen *ebiten.Image) {
	if s.content == nil {
		return
	}
	variant := s.index % content.BackgroundVariants
	for layer := 0; layer < content.BackgroundLayers; layer++ {
		img := s.content.Backgrounds[layer][variant]
		if img == nil {
			continue
		}
		w := float64(img.Bounds().Dx())
		scroll := s.camera.X * (0.2 + 0.4*float64(layer))
		offset := -math.Mod(scroll, w)
		for x := offset; x < s.opts.ViewWidth; x += w {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, 0)
			screen.DrawImage(img, op)
		}
	}
}
