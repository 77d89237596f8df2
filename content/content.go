package content

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Content holds every loaded resource. A Pipeline fills it; everyone else
// reads it only after the pipeline reported FullyReady.
type Content struct {
	Pixel   *ebiten.Image
	HUDFont *text.GoTextFaceSource

	Overlays            [OverlayCount]*ebiten.Image
	VirtualControlArrow *ebiten.Image

	Player [PlayerSheetCount]*ebiten.Image
	Gem    *ebiten.Image

	// Backgrounds is indexed [layer][variant].
	Backgrounds [BackgroundLayers][BackgroundVariants]*ebiten.Image

	MonsterIdle [MonsterKinds]*ebiten.Image
	MonsterRun  [MonsterKinds]*ebiten.Image

	Tiles map[string]*ebiten.Image

	Music  *audio.Player
	Sounds [SoundCount]*audio.Player

	// Levels holds the raw lines of each level file.
	Levels [][]string
}

// LevelUpdate replaces the lines of one level at runtime.
type LevelUpdate struct {
	Index int
	Lines []string
}

func NewContent(numLevels int) *Content {
	return &Content{
		Tiles:  make(map[string]*ebiten.Image, len(TileNames)),
		Levels: make([][]string, numLevels),
	}
}

// NumLevels returns the number of level slots.
func (c *Content) NumLevels() int {
	if c == nil {
		return 0
	}
	return len(c.Levels)
}

// LevelLines returns the lines of level i.
func (c *Content) LevelLines(i int) ([]string, bool) {
	if c == nil || i < 0 || i >= len(c.Levels) {
		return nil, false
	}
	return c.Levels[i], true
}

// SetLevel replaces the lines of level i.
func (c *Content) SetLevel(i int, lines []string) error {
	if i < 0 || i >= len(c.Levels) {
		return fmt.Errorf("content: level index %d outside [0, %d)", i, len(c.Levels))
	}
	c.Levels[i] = lines
	return nil
}

// PlayMusic starts the looped music track from the beginning.
func (c *Content) PlayMusic() {
	if c == nil || c.Music == nil {
		return
	}
	c.Music.Rewind()
	c.Music.Play()
}

// StopMusic pauses the music track.
func (c *Content) StopMusic() {
	if c == nil || c.Music == nil {
		return
	}
	c.Music.Pause()
}

// PlaySound restarts sound effect i.
func (c *Content) PlaySound(i int) {
	if c == nil || i < 0 || i >= SoundCount || c.Sounds[i] == nil {
		return
	}
	p := c.Sounds[i]
	p.Rewind()
	p.Play()
}

// assign writes a fetched handle into the slot named by entry.
func (c *Content) assign(e Entry, v any) error {
	s := e.Slot
	switch s.Group {
	case GroupPixel:
		return setImage(&c.Pixel, v)
	case GroupFont:
		f, ok := v.(*text.GoTextFaceSource)
		if !ok {
			return typeMismatch(e, v)
		}
		c.HUDFont = f
		return nil
	case GroupOverlay:
		if s.Index < 0 || s.Index >= OverlayCount {
			return badIndex(e)
		}
		return setImage(&c.Overlays[s.Index], v)
	case GroupArrow:
		return setImage(&c.VirtualControlArrow, v)
	case GroupPlayer:
		if s.Index < 0 || s.Index >= PlayerSheetCount {
			return badIndex(e)
		}
		return setImage(&c.Player[s.Index], v)
	case GroupGem:
		return setImage(&c.Gem, v)
	case GroupBackground:
		if s.Row < 0 || s.Row >= BackgroundLayers || s.Col < 0 || s.Col >= BackgroundVariants {
			return badIndex(e)
		}
		return setImage(&c.Backgrounds[s.Row][s.Col], v)
	case GroupMonsterIdle:
		if s.Index < 0 || s.Index >= MonsterKinds {
			return badIndex(e)
		}
		return setImage(&c.MonsterIdle[s.Index], v)
	case GroupMonsterRun:
		if s.Index < 0 || s.Index >= MonsterKinds {
			return badIndex(e)
		}
		return setImage(&c.MonsterRun[s.Index], v)
	case GroupTile:
		img, ok := v.(*ebiten.Image)
		if !ok {
			return typeMismatch(e, v)
		}
		c.Tiles[s.Name] = img
		return nil
	case GroupMusic:
		return setPlayer(&c.Music, v)
	case GroupSound:
		if s.Index < 0 || s.Index >= SoundCount {
			return badIndex(e)
		}
		return setPlayer(&c.Sounds[s.Index], v)
	case GroupLevel:
		lines, ok := v.([]string)
		if !ok {
			return typeMismatch(e, v)
		}
		return c.SetLevel(s.Index, lines)
	}
	return fmt.Errorf("content: unknown slot group %d for %s", s.Group, e)
}

func setImage(dst **ebiten.Image, v any) error {
	img, ok := v.(*ebiten.Image)
	if !ok {
		return fmt.Errorf("content: expected *ebiten.Image, got %T", v)
	}
	*dst = img
	return nil
}

func setPlayer(dst **audio.Player, v any) error {
	p, ok := v.(*audio.Player)
	if !ok {
		return fmt.Errorf("content: expected *audio.Player, got %T", v)
	}
	*dst = p
	return nil
}

func typeMismatch(e Entry, v any) error {
	return fmt.Errorf("content: %s: unexpected handle type %T", e, v)
}

func badIndex(e Entry) error {
	return fmt.Errorf("content: %s: slot index out of range", e)
}
