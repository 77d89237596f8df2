package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	g, err := Parse([]string{
		"..G.A",
		"1-:~X",
		"#####",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, g.Width)
	assert.Equal(t, 3, g.Height)
	assert.Equal(t, Point{X: 20, Y: 64}, g.Start)
	assert.Equal(t, Point{X: 180, Y: 64}, g.Exit)
	assert.Equal(t, []Point{{X: 100, Y: 16}}, g.Gems)
	assert.Equal(t, []MonsterSpawn{{Kind: 0, At: Point{X: 180, Y: 32}}}, g.Monsters)

	assert.Equal(t, Platform, g.At(1, 1).Collision)
	assert.Equal(t, "Platform", g.At(1, 1).Texture)
	assert.Equal(t, Passable, g.At(2, 1).Collision)
	assert.Contains(t, g.At(2, 1).Texture, "BlockB")
	assert.Equal(t, Impassable, g.At(3, 1).Collision)
	assert.Equal(t, "Exit", g.At(4, 1).Texture)
	assert.Equal(t, Impassable, g.At(0, 2).Collision)
	assert.Contains(t, g.At(0, 2).Texture, "BlockA")
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
	}{
		{name: "empty", lines: nil},
		{name: "ragged", lines: []string{"1..X", "###"}},
		{name: "no start", lines: []string{"...X", "####"}},
		{name: "two starts", lines: []string{"1.1X", "####"}},
		{name: "no exit", lines: []string{"1...", "####"}},
		{name: "unknown tile", lines: []string{"1.?X", "####"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.lines)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestCollisionAtEdges(t *testing.T) {
	g, err := Parse([]string{"1X", "##"})
	require.NoError(t, err)

	assert.Equal(t, Impassable, g.CollisionAt(-1, 0))
	assert.Equal(t, Impassable, g.CollisionAt(2, 0))
	assert.Equal(t, Passable, g.CollisionAt(0, -1))
	assert.Equal(t, Passable, g.CollisionAt(0, 2))
	assert.Equal(t, Impassable, g.CollisionAt(1, 1))
}

func TestTextureVariantsAreStable(t *testing.T) {
	lines := []string{"1..X", "####"}
	a, err := Parse(lines)
	require.NoError(t, err)
	b, err := Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, a.Tiles, b.Tiles)
}

func TestRect(t *testing.T) {
	r := rectAround(Point{X: 50, Y: 100}, 20, 40)
	assert.Equal(t, Rect{X: 40, Y: 60, Width: 20, Height: 40}, r)
	assert.True(t, r.Contains(Point{X: 50, Y: 80}))
	assert.False(t, r.Contains(Point{X: 70, Y: 80}))
	assert.True(t, r.Intersects(Rect{X: 55, Y: 90, Width: 10, Height: 10}))
	assert.False(t, r.Intersects(Rect{X: 60, Y: 60, Width: 10, Height: 10}))
	assert.True(t, r.IntersectsCircle(Point{X: 65, Y: 80}, 6))
	assert.False(t, r.IntersectsCircle(Point{X: 70, Y: 80}, 6))
}
