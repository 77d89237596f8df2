package loop

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/config"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	inits    int
	progress content.Progress
	err      error
	content  *content.Content
}

func (l *fakeLoader) Init(context.Context) error {
	l.inits++
	return nil
}

func (l *fakeLoader) Progress() content.Progress { return l.progress }
func (l *fakeLoader) Err() error                 { return l.err }
func (l *fakeLoader) Content() *content.Content  { return l.content }

func (l *fakeLoader) finish() {
	l.progress = content.Progress{Counter: 49, Total: 49, BaseReady: true, FullyReady: true}
}

type fakeSession struct {
	index    int
	events   *[]string
	alive    bool
	reached  bool
	remain   time.Duration
	vx       float64
	updates  int
	lives    int
	disposed bool
}

func (s *fakeSession) Update(common.Tick, input.Snapshot) { s.updates++ }
func (s *fakeSession) Draw(*ebiten.Image, common.Tick)    {}
func (s *fakeSession) PlayerAlive() bool                  { return s.alive }
func (s *fakeSession) PlayerVelocity() (float64, float64) { return s.vx, 0 }
func (s *fakeSession) TimeRemaining() time.Duration       { return s.remain }
func (s *fakeSession) ReachedExit() bool                  { return s.reached }
func (s *fakeSession) Score() int                         { return 0 }
func (s *fakeSession) StartNewLife()                      { s.lives++; s.alive = true }

func (s *fakeSession) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	*s.events = append(*s.events, fmt.Sprintf("dispose %d", s.index))
}

type harness struct {
	c        *Controller
	loader   *fakeLoader
	pad      *input.VirtualGamePad
	raw      input.Raw
	events   []string
	sessions []*fakeSession
	tick     common.Tick
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{loader: &fakeLoader{content: content.NewContent(3)}}
	cfg := config.Default()
	h.pad = input.NewVirtualGamePad(input.StripLayout(800, 480, 128, 0.5), ebiten.GeoM{}, input.HintTiming{})
	factory := func(index int, c *content.Content) (Session, error) {
		for _, s := range h.sessions {
			require.True(t, s.disposed, "previous session live during construction")
		}
		h.events = append(h.events, fmt.Sprintf("construct %d", index))
		s := &fakeSession{index: index, events: &h.events, alive: true, remain: time.Minute}
		h.sessions = append(h.sessions, s)
		return s, nil
	}
	poller := input.PollerFunc(func() input.Raw { return h.raw })
	h.c = New(cfg, h.loader, h.pad, poller, factory, nil, opts...)
	return h
}

func (h *harness) step(t *testing.T) error {
	t.Helper()
	h.tick = h.tick.Next()
	return h.c.Tick(h.tick)
}

func (h *harness) current() *fakeSession {
	return h.c.Session().(*fakeSession)
}

// playing brings the harness to the first level.
func (h *harness) playing(t *testing.T) {
	t.Helper()
	h.raw = input.Raw{MouseLeft: true}
	require.NoError(t, h.step(t))
	h.raw = input.Raw{}
	h.loader.finish()
	require.NoError(t, h.step(t))
	require.Equal(t, StatePlaying, h.c.State())
}

func (h *harness) pressContinue(t *testing.T) {
	t.Helper()
	h.raw = input.Raw{Keys: []ebiten.Key{ebiten.KeySpace}}
	require.NoError(t, h.step(t))
	h.raw = input.Raw{}
	require.NoError(t, h.step(t))
}

func TestAdvanceWraps(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, -1, h.c.LevelIndex())

	var got []int
	for range 4 {
		h.c.Advance()
		got = append(got, h.c.LevelIndex())
	}
	assert.Equal(t, []int{0, 1, 2, 0}, got)
}

func TestReloadCurrentKeepsIndex(t *testing.T) {
	h := newHarness(t)
	for range 3 {
		h.c.Advance()
	}
	require.Equal(t, 2, h.c.LevelIndex())

	first := h.current()
	h.c.ReloadCurrent()
	assert.Equal(t, 2, h.c.LevelIndex())
	assert.Equal(t, 2, h.current().index)
	assert.NotSame(t, first, h.current())
	assert.True(t, first.disposed)
}

func TestDisposeBeforeConstruct(t *testing.T) {
	h := newHarness(t)
	h.c.Advance()
	h.c.Advance()
	h.c.ReloadCurrent()

	assert.Equal(t, []string{
		"construct 0",
		"dispose 0", "construct 1",
		"dispose 1", "construct 1",
	}, h.events)
}

func TestInvalidIndexPanics(t *testing.T) {
	h := newHarness(t)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrInvalidLevelIndex)
	}()
	h.c.reconstructAt(3)
}

func TestActivationConsumedOnce(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.step(t))
	assert.Equal(t, StateAwaitingActivation, h.c.State())
	assert.Zero(t, h.loader.inits)

	h.raw = input.Raw{MouseLeft: true}
	for range 3 {
		require.NoError(t, h.step(t))
	}
	h.raw = input.Raw{}
	require.NoError(t, h.step(t))
	h.raw = input.Raw{Keys: []ebiten.Key{ebiten.KeyEnter}}
	require.NoError(t, h.step(t))

	assert.Equal(t, 1, h.loader.inits)
	assert.Equal(t, StateLoading, h.c.State())
	assert.Nil(t, h.c.Session())
}

func TestLoadingWaitsForFullyReady(t *testing.T) {
	h := newHarness(t)
	h.raw = input.Raw{MouseLeft: true}
	require.NoError(t, h.step(t))

	h.loader.progress = content.Progress{Counter: 10, Total: 49, BaseReady: true}
	for range 5 {
		require.NoError(t, h.step(t))
	}
	assert.Equal(t, StateLoading, h.c.State())
	assert.Empty(t, h.events)

	h.loader.finish()
	require.NoError(t, h.step(t))
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, 0, h.c.LevelIndex())
	assert.Equal(t, []string{"construct 0"}, h.events)
	assert.NotEmpty(t, h.c.SessionID())
}

func TestFetchFailureMovesToFailed(t *testing.T) {
	h := newHarness(t)
	h.raw = input.Raw{MouseLeft: true}
	require.NoError(t, h.step(t))

	h.loader.progress = content.Progress{Counter: 1, Total: 49}
	h.loader.err = &content.FetchError{Index: 1, Err: errors.New("boom")}
	require.NoError(t, h.step(t))

	assert.Equal(t, StateFailed, h.c.State())
	assert.ErrorIs(t, h.c.Err(), content.ErrAssetFetch)

	// terminal
	h.loader.finish()
	require.NoError(t, h.step(t))
	assert.Equal(t, StateFailed, h.c.State())
	assert.Nil(t, h.c.Session())
}

func TestFactoryFailureMovesToFailed(t *testing.T) {
	loader := &fakeLoader{content: content.NewContent(3)}
	loader.finish()
	boom := errors.New("bad level")
	factory := func(int, *content.Content) (Session, error) { return nil, boom }
	raw := input.Raw{MouseLeft: true}
	pad := input.NewVirtualGamePad(input.StripLayout(800, 480, 128, 0.5), ebiten.GeoM{}, input.HintTiming{})
	c := New(config.Default(), loader, pad, input.PollerFunc(func() input.Raw { return raw }), factory, nil)

	require.NoError(t, c.Tick(common.Tick{}.Next()))
	assert.Equal(t, StateFailed, c.State())
	assert.ErrorIs(t, c.Err(), boom)
	assert.Nil(t, c.Session())
}

func TestLevelCountMismatchFails(t *testing.T) {
	h := newHarness(t)
	h.loader.content = content.NewContent(2)
	h.raw = input.Raw{MouseLeft: true}
	require.NoError(t, h.step(t))
	h.loader.finish()
	require.NoError(t, h.step(t))
	assert.Equal(t, StateFailed, h.c.State())
}

func TestContinueTransitions(t *testing.T) {
	cases := []struct {
		name      string
		start     int
		alive     bool
		remain    time.Duration
		reached   bool
		wantIndex int
		wantLives int
		wantNew   bool
	}{
		{name: "dead respawns in place", alive: false, remain: time.Minute, wantIndex: 0, wantLives: 1},
		{name: "dead at timeout respawns", alive: false, remain: 0, wantIndex: 0, wantLives: 1},
		{name: "exit advances", start: 0, alive: true, remain: 0, reached: true, wantIndex: 1, wantNew: true},
		{name: "exit on last level wraps", start: 2, alive: true, remain: 0, reached: true, wantIndex: 0, wantNew: true},
		{name: "timeout reloads same", start: 2, alive: true, remain: 0, wantIndex: 2, wantNew: true},
		{name: "playing ignores continue", alive: true, remain: time.Minute, wantIndex: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.playing(t)
			for h.c.LevelIndex() != tc.start {
				h.c.Advance()
			}
			s := h.current()
			s.alive, s.remain, s.reached = tc.alive, tc.remain, tc.reached

			h.pressContinue(t)

			assert.Equal(t, tc.wantIndex, h.c.LevelIndex())
			assert.Equal(t, tc.wantLives, s.lives)
			assert.Equal(t, tc.wantNew, h.current() != s)
			assert.Equal(t, tc.wantNew, s.disposed)
		})
	}
}

func TestContinueIsEdgeTriggered(t *testing.T) {
	h := newHarness(t)
	h.playing(t)
	s := h.current()
	s.alive = false

	h.raw = input.Raw{Keys: []ebiten.Key{ebiten.KeySpace}}
	require.NoError(t, h.step(t))
	s.alive = false
	for range 10 {
		require.NoError(t, h.step(t))
	}
	assert.Equal(t, 1, s.lives)
}

func TestTouchCountsAsContinue(t *testing.T) {
	h := newHarness(t)
	h.playing(t)
	s := h.current()
	s.alive = false

	h.raw = input.Raw{Touches: []input.TouchPoint{{X: 400, Y: 240}}}
	require.NoError(t, h.step(t))
	assert.Equal(t, 1, s.lives)
}

func TestSessionUpdatedEveryPlayingTick(t *testing.T) {
	h := newHarness(t)
	h.playing(t)
	s := h.current()
	before := s.updates
	for range 5 {
		require.NoError(t, h.step(t))
	}
	assert.Equal(t, before+5, s.updates)
}

func TestBackExits(t *testing.T) {
	h := newHarness(t)
	h.playing(t)
	h.raw = input.Raw{Keys: []ebiten.Key{ebiten.KeyEscape}}
	assert.ErrorIs(t, h.step(t), ErrExit)
}

func TestMovementLatchesHint(t *testing.T) {
	h := newHarness(t)
	h.playing(t)
	h.raw = input.Raw{TouchCapable: true}
	require.NoError(t, h.step(t))
	require.True(t, h.pad.HintVisible())

	h.current().vx = 3
	require.NoError(t, h.step(t))
	assert.False(t, h.pad.HintVisible())

	h.current().vx = 0
	require.NoError(t, h.step(t))
	assert.False(t, h.pad.HintVisible())
}

func TestLevelUpdatesReloadCurrent(t *testing.T) {
	updates := make(chan content.LevelUpdate, 4)
	h := newHarness(t, WithLevelUpdates(updates))
	h.playing(t)

	updates <- content.LevelUpdate{Index: 2, Lines: []string{"1X"}}
	require.NoError(t, h.step(t))
	assert.Equal(t, []string{"construct 0"}, h.events)
	lines, _ := h.loader.content.LevelLines(2)
	assert.Equal(t, []string{"1X"}, lines)

	updates <- content.LevelUpdate{Index: 0, Lines: []string{"X1"}}
	updates <- content.LevelUpdate{Index: 0, Lines: []string{"1.X"}}
	updates <- content.LevelUpdate{Index: 7, Lines: []string{"1X"}}
	require.NoError(t, h.step(t))
	assert.Equal(t, []string{"construct 0", "dispose 0", "construct 0"}, h.events)
	lines, _ = h.loader.content.LevelLines(0)
	assert.Equal(t, []string{"1.X"}, lines)

	close(updates)
	require.NoError(t, h.step(t))
	assert.Equal(t, StatePlaying, h.c.State())
}
