package content

import "fmt"

// Kind is the resource type an entry fetches.
type Kind int

const (
	KindTexture Kind = iota
	KindFont
	KindMusic
	KindSound
	KindLevelLines
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindFont:
		return "font"
	case KindMusic:
		return "music"
	case KindSound:
		return "sound"
	case KindLevelLines:
		return "level"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Group identifies which Content field a slot refers to.
type Group int

const (
	GroupPixel Group = iota
	GroupFont
	GroupOverlay
	GroupArrow
	GroupPlayer
	GroupGem
	GroupBackground
	GroupMonsterIdle
	GroupMonsterRun
	GroupTile
	GroupMusic
	GroupSound
	GroupLevel
)

// Slot is the destination of a fetched resource. Index is used by array
// groups, Row/Col by the background grid and Name by the tile dictionary.
type Slot struct {
	Group Group
	Index int
	Row   int
	Col   int
	Name  string
}

// Entry is one manifest item.
type Entry struct {
	Kind Kind
	Key  string
	Slot Slot
}

func (e Entry) String() string {
	return e.Kind.String() + " " + e.Key
}

// Manifest is the ordered list of entries a Pipeline fetches. The first Base
// entries gate BaseReady.
type Manifest struct {
	Entries []Entry
	Base    int
}

func (m Manifest) Len() int { return len(m.Entries) }

// Overlay texture slots.
const (
	OverlayWin = iota
	OverlayLose
	OverlayDied
	OverlayCount
)

// Player sheet slots.
const (
	PlayerIdle = iota
	PlayerRun
	PlayerJump
	PlayerCelebrate
	PlayerDie
	PlayerSheetCount
)

// Sound effect slots.
const (
	SoundPlayerKilled = iota
	SoundPlayerJump
	SoundPlayerFall
	SoundExitReached
	SoundGemCollected
	SoundCount
)

const (
	BackgroundLayers   = 3
	BackgroundVariants = 3
	MonsterKinds       = 4
)

var overlayKeys = [OverlayCount]string{
	OverlayWin:  "overlays/you_win.png",
	OverlayLose: "overlays/you_lose.png",
	OverlayDied: "overlays/you_died.png",
}

var playerKeys = [PlayerSheetCount]string{
	PlayerIdle:      "sprites/player/idle.png",
	PlayerRun:       "sprites/player/run.png",
	PlayerJump:      "sprites/player/jump.png",
	PlayerCelebrate: "sprites/player/celebrate.png",
	PlayerDie:       "sprites/player/die.png",
}

var soundKeys = [SoundCount]string{
	SoundPlayerKilled: "sounds/player_killed.wav",
	SoundPlayerJump:   "sounds/player_jump.wav",
	SoundPlayerFall:   "sounds/player_fall.wav",
	SoundExitReached:  "sounds/exit_reached.wav",
	SoundGemCollected: "sounds/gem_collected.wav",
}

// TileNames lists the tile dictionary keys in load order.
var TileNames = []string{
	"BlockA0", "BlockA1", "BlockA2", "BlockA3", "BlockA4", "BlockA5", "BlockA6",
	"BlockB0", "BlockB1", "Exit", "Platform",
}

// DefaultManifest returns the game's manifest for numLevels level files.
func DefaultManifest(numLevels int) Manifest {
	var entries []Entry
	add := func(kind Kind, key string, slot Slot) {
		entries = append(entries, Entry{Kind: kind, Key: key, Slot: slot})
	}

	add(KindTexture, "textures/pixel.png", Slot{Group: GroupPixel})
	add(KindFont, "fonts/hud", Slot{Group: GroupFont})

	for i, key := range overlayKeys {
		add(KindTexture, key, Slot{Group: GroupOverlay, Index: i})
	}
	add(KindTexture, "sprites/virtual_control_arrow.png", Slot{Group: GroupArrow})

	for i, key := range playerKeys {
		add(KindTexture, key, Slot{Group: GroupPlayer, Index: i})
	}
	add(KindTexture, "sprites/gem.png", Slot{Group: GroupGem})

	for row := 0; row < BackgroundLayers; row++ {
		for col := 0; col < BackgroundVariants; col++ {
			add(KindTexture, fmt.Sprintf("backgrounds/layer%d_%d.png", row, col),
				Slot{Group: GroupBackground, Row: row, Col: col})
		}
	}

	for i := 0; i < MonsterKinds; i++ {
		add(KindTexture, fmt.Sprintf("sprites/monster%d/idle.png", i), Slot{Group: GroupMonsterIdle, Index: i})
		add(KindTexture, fmt.Sprintf("sprites/monster%d/run.png", i), Slot{Group: GroupMonsterRun, Index: i})
	}

	for _, name := range TileNames {
		add(KindTexture, "tiles/"+name+".png", Slot{Group: GroupTile, Name: name})
	}

	add(KindMusic, "sounds/music.wav", Slot{Group: GroupMusic})

	for i, key := range soundKeys {
		add(KindSound, key, Slot{Group: GroupSound, Index: i})
	}

	for i := 0; i < numLevels; i++ {
		add(KindLevelLines, fmt.Sprintf("levels/%d.txt", i), Slot{Group: GroupLevel, Index: i})
	}

	return Manifest{Entries: entries, Base: 2}
}
