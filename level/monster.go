package level

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/prefabs"
)

// monster paces along its floor, pausing at walls and ledges before turning.
type monster struct {
	kind int
	spec prefabs.MonsterSpec
	pos  Point
	// dir is -1 or 1.
	dir  float64
	wait time.Duration

	idle *Animation
	run  *Animation
}

func newMonster(spawn MonsterSpawn, spec prefabs.MonsterSpec, c *content.Content) *monster {
	m := &monster{kind: spawn.Kind, spec: spec, pos: spawn.At, dir: -1}
	var idle, run *ebiten.Image
	if c != nil && spawn.Kind >= 0 && spawn.Kind < content.MonsterKinds {
		idle, run = c.MonsterIdle[spawn.Kind], c.MonsterRun[spawn.Kind]
	}
	m.idle = NewAnimation(idle, spec.Animation[animIdle])
	m.run = NewAnimation(run, spec.Animation[animRun])
	return m
}

func (m *monster) update(elapsed time.Duration, g *Grid) {
	if m.wait > 0 {
		m.wait -= elapsed
		m.idle.Update()
		if m.wait <= 0 {
			m.dir = -m.dir
		}
		return
	}

	halfW := m.spec.Collider.Width / 2
	tileX := int(math.Floor((m.pos.X+halfW*m.dir)/common.TileWidth)) - int(m.dir)
	tileY := int(math.Floor(m.pos.Y / common.TileHeight))
	ahead := tileX + int(m.dir)

	wall := g.CollisionAt(ahead, tileY-1) == Impassable
	ledge := g.CollisionAt(ahead, tileY) == Passable
	if wall || ledge {
		m.wait = m.spec.WaitTime
		if m.wait <= 0 {
			m.dir = -m.dir
		}
		return
	}
	m.pos.X += m.dir * m.spec.MoveSpeed * elapsed.Seconds()
	m.run.Update()
}

func (m *monster) bounds() Rect {
	return rectAround(m.pos, m.spec.Collider.Width, m.spec.Collider.Height)
}

func (m *monster) draw(screen *ebiten.Image, camX float64) {
	a := m.run
	if m.wait > 0 {
		a = m.idle
	}
	a.Draw(screen, m.pos.X-camX, m.pos.Y, m.dir < 0)
}
