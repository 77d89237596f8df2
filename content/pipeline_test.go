package content

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeHandle returns a correctly typed (nil) handle for an entry.
func fakeHandle(e Entry) any {
	switch e.Kind {
	case KindTexture:
		return (*ebiten.Image)(nil)
	case KindFont:
		return (*text.GoTextFaceSource)(nil)
	case KindMusic, KindSound:
		return (*audio.Player)(nil)
	case KindLevelLines:
		return []string{"level " + e.Key}
	}
	return nil
}

// recordingFetch fails at the 1-based position failAt (0 = never) and records
// every key asked for.
func recordingFetch(failAt int, keys *[]string) FetchFunc {
	return func(_ context.Context, e Entry) (any, error) {
		*keys = append(*keys, e.Key)
		if len(*keys) == failAt {
			return nil, errBoom
		}
		return fakeHandle(e), nil
	}
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest(3)
	require.Equal(t, 49, m.Len())
	assert.Equal(t, 2, m.Base)

	assert.Equal(t, Entry{Kind: KindTexture, Key: "textures/pixel.png", Slot: Slot{Group: GroupPixel}}, m.Entries[0])
	assert.Equal(t, KindFont, m.Entries[1].Kind)

	var backgrounds []string
	for _, e := range m.Entries {
		if e.Slot.Group == GroupBackground {
			backgrounds = append(backgrounds, e.Key)
		}
	}
	require.Len(t, backgrounds, 9)
	assert.Equal(t, "backgrounds/layer0_0.png", backgrounds[0])
	assert.Equal(t, "backgrounds/layer0_1.png", backgrounds[1])
	assert.Equal(t, "backgrounds/layer2_2.png", backgrounds[8])

	last := m.Entries[m.Len()-3:]
	for i, e := range last {
		assert.Equal(t, KindLevelLines, e.Kind)
		assert.Equal(t, "levels/"+strconv.Itoa(i)+".txt", e.Key)
	}

	// groups appear in non-decreasing order
	prev := Group(-1)
	for _, e := range m.Entries {
		g := e.Slot.Group
		if g == GroupMonsterRun {
			g = GroupMonsterIdle
		}
		assert.GreaterOrEqual(t, g, prev, "entry %s out of order", e)
		prev = g
	}
}

func TestPipelineRunSuccess(t *testing.T) {
	var keys []string
	m := DefaultManifest(3)
	p := NewPipeline(recordingFetch(0, &keys), m, nil)

	require.NoError(t, p.Run(context.Background()))

	pr := p.Progress()
	assert.Equal(t, m.Len(), pr.Counter)
	assert.Equal(t, pr.Total, pr.Counter)
	assert.True(t, pr.BaseReady)
	assert.True(t, pr.FullyReady)
	assert.NoError(t, p.Err())

	for i, e := range m.Entries {
		assert.Equal(t, e.Key, keys[i])
	}

	c := p.Content()
	require.Equal(t, 3, c.NumLevels())
	lines, ok := c.LevelLines(2)
	require.True(t, ok)
	assert.Equal(t, []string{"level levels/2.txt"}, lines)
	assert.Len(t, c.Tiles, len(TileNames))
}

func TestPipelineFailureAtEveryIndex(t *testing.T) {
	m := DefaultManifest(3)
	for k := 1; k <= m.Len(); k++ {
		t.Run(strconv.Itoa(k), func(t *testing.T) {
			var keys []string
			p := NewPipeline(recordingFetch(k, &keys), m, nil)

			err := p.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAssetFetch)
			assert.ErrorIs(t, err, errBoom)

			var ferr *FetchError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, k-1, ferr.Index)
			assert.Equal(t, m.Entries[k-1], ferr.Entry)

			assert.Len(t, keys, k, "no fetch after the failing one")
			assert.Equal(t, k-1, p.Counter())
			assert.False(t, p.FullyReady())
			assert.Equal(t, k > 2, p.BaseReady())
			assert.Equal(t, err, p.Err())
		})
	}
}

func TestPipelineSlotTypeMismatch(t *testing.T) {
	m := DefaultManifest(1)
	fetch := func(_ context.Context, e Entry) (any, error) {
		if e.Kind == KindFont {
			return "not a font", nil
		}
		return fakeHandle(e), nil
	}
	p := NewPipeline(fetch, m, nil)

	err := p.Run(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Index)
	assert.False(t, p.BaseReady())
	assert.Equal(t, 1, p.Counter())
}

func TestPipelineInitAsync(t *testing.T) {
	m := DefaultManifest(3)
	release := make(chan struct{})
	fetch := func(_ context.Context, e Entry) (any, error) {
		if e.Slot.Group == GroupOverlay && e.Slot.Index == OverlayWin {
			<-release
		}
		return fakeHandle(e), nil
	}
	p := NewPipeline(fetch, m, nil)

	require.NoError(t, p.Init(context.Background()))
	require.Eventually(t, p.BaseReady, time.Second, time.Millisecond)
	assert.Equal(t, 2, p.Counter())
	assert.False(t, p.FullyReady())

	assert.ErrorIs(t, p.Init(context.Background()), ErrAlreadyRunning)

	close(release)
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatalf("pipeline did not finish")
	}
	assert.True(t, p.FullyReady())
	assert.Equal(t, p.Total(), p.Counter())
}

func TestPipelineRestartResetsCounter(t *testing.T) {
	m := DefaultManifest(3)
	fail := true
	fetch := func(_ context.Context, e Entry) (any, error) {
		if fail && e.Slot.Group == GroupTile {
			return nil, errBoom
		}
		return fakeHandle(e), nil
	}
	p := NewPipeline(fetch, m, nil)

	require.Error(t, p.Run(context.Background()))
	assert.True(t, p.BaseReady())
	failed := p.Content()

	fail = false
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, p.Total(), p.Counter())
	assert.True(t, p.FullyReady())
	assert.NoError(t, p.Err())
	assert.NotSame(t, failed, p.Content())
}

func TestStoreFetcherDispatch(t *testing.T) {
	s := &kindStore{}
	fetch := StoreFetcher(s)
	for _, e := range DefaultManifest(1).Entries {
		_, err := fetch(context.Background(), e)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.fonts)
	assert.Equal(t, 1, s.music)
	assert.Equal(t, SoundCount, s.sounds)
	assert.Equal(t, 1, s.lines)

	_, err := fetch(context.Background(), Entry{Kind: Kind(99)})
	assert.Error(t, err)
}

type kindStore struct {
	images, fonts, music, sounds, lines int
}

func (s *kindStore) LoadImage(string) (*ebiten.Image, error) { s.images++; return nil, nil }
func (s *kindStore) LoadFont(string) (*text.GoTextFaceSource, error) {
	s.fonts++
	return nil, nil
}
func (s *kindStore) LoadMusic(string) (*audio.Player, error) { s.music++; return nil, nil }
func (s *kindStore) LoadSound(string) (*audio.Player, error) { s.sounds++; return nil, nil }
func (s *kindStore) LoadLines(string) ([]string, error)      { s.lines++; return nil, nil }

func TestContentSetLevelBounds(t *testing.T) {
	c := NewContent(2)
	require.NoError(t, c.SetLevel(1, []string{"x"}))
	assert.Error(t, c.SetLevel(2, nil))
	assert.Error(t, c.SetLevel(-1, nil))
	_, ok := c.LevelLines(5)
	assert.False(t, ok)

	// nil players are ignored
	c.PlayMusic()
	c.PlaySound(SoundGemCollected)
}
