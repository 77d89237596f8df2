package level

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/milk9111/platformer2d/common"
)

var ErrParse = errors.New("level: parse")

// Collision is how a tile interacts with bodies.
type Collision int

const (
	Passable Collision = iota
	Impassable
	// Platform blocks from above only.
	Platform
)

type Tile struct {
	Collision Collision
	// Texture names a content tile; empty draws nothing.
	Texture string
}

type Point struct {
	X, Y float64
}

type MonsterSpawn struct {
	Kind int
	At   Point
}

// Grid is a parsed level. Points are in world pixels; Start and monster
// spawns and Exit are the bottom center of their tile, gems the tile center.
type Grid struct {
	Width    int
	Height   int
	Tiles    []Tile
	Start    Point
	Exit     Point
	Gems     []Point
	Monsters []MonsterSpawn
}

// Parse builds a grid from rows of tile characters.
func Parse(lines []string) (*Grid, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, fmt.Errorf("%w: empty level", ErrParse)
	}
	g := &Grid{Width: len(lines[0]), Height: len(lines)}
	g.Tiles = make([]Tile, g.Width*g.Height)

	starts, exits := 0, 0
	for y, line := range lines {
		if len(line) != g.Width {
			return nil, fmt.Errorf("%w: line %d has length %d, want %d", ErrParse, y+1, len(line), g.Width)
		}
		for x := 0; x < len(line); x++ {
			ch := line[x]
			t, err := g.tileFor(ch, x, y)
			if err != nil {
				return nil, err
			}
			switch ch {
			case '1':
				starts++
			case 'X':
				exits++
			}
			g.Tiles[y*g.Width+x] = t
		}
	}

	if starts != 1 {
		return nil, fmt.Errorf("%w: level needs exactly one start, found %d", ErrParse, starts)
	}
	if exits == 0 {
		return nil, fmt.Errorf("%w: level has no exit", ErrParse)
	}
	return g, nil
}

func (g *Grid) tileFor(ch byte, x, y int) (Tile, error) {
	switch ch {
	case '.':
		return Tile{}, nil
	case 'X':
		g.Exit = bottomCenter(x, y)
		return Tile{Texture: "Exit"}, nil
	case 'G':
		c := bottomCenter(x, y)
		c.Y -= common.TileHeight / 2
		g.Gems = append(g.Gems, c)
		return Tile{}, nil
	case '-':
		return Tile{Collision: Platform, Texture: "Platform"}, nil
	case 'A', 'B', 'C', 'D':
		g.Monsters = append(g.Monsters, MonsterSpawn{Kind: int(ch - 'A'), At: bottomCenter(x, y)})
		return Tile{}, nil
	case '~':
		return Tile{Collision: Impassable, Texture: variant("BlockB", x, y, 2)}, nil
	case ':':
		return Tile{Collision: Passable, Texture: variant("BlockB", x, y, 2)}, nil
	case '1':
		g.Start = bottomCenter(x, y)
		return Tile{}, nil
	case '#':
		return Tile{Collision: Impassable, Texture: variant("BlockA", x, y, 7)}, nil
	}
	return Tile{}, fmt.Errorf("%w: unsupported tile %q at %d,%d", ErrParse, ch, x, y)
}

// variant picks a stable texture variation for a tile position.
func variant(base string, x, y, n int) string {
	return base + strconv.Itoa((x*31+y*17)%n)
}

func bottomCenter(x, y int) Point {
	return Point{
		X: float64(x*common.TileWidth) + common.TileWidth/2,
		Y: float64((y + 1) * common.TileHeight),
	}
}

// At returns the tile at x, y or an empty tile outside the grid.
func (g *Grid) At(x, y int) Tile {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return Tile{}
	}
	return g.Tiles[y*g.Width+x]
}

// CollisionAt treats the grid's sides as walls and its top and bottom as
// open so bodies can jump above it or fall out of it.
func (g *Grid) CollisionAt(x, y int) Collision {
	if x < 0 || x >= g.Width {
		return Impassable
	}
	if y < 0 || y >= g.Height {
		return Passable
	}
	return g.Tiles[y*g.Width+x].Collision
}

// PixelSize is the world size of the grid.
func (g *Grid) PixelSize() (w, h float64) {
	return float64(g.Width * common.TileWidth), float64(g.Height * common.TileHeight)
}
