package level

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer2d/common"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/input"
	"github.com/milk9111/platformer2d/prefabs"
)

const (
	animIdle      = "idle"
	animRun       = "run"
	animJump      = "jump"
	animCelebrate = "celebrate"
	animDie       = "die"
)

type player struct {
	spec  prefabs.PlayerSpec
	world *physicsWorld
	sink  *content.Content

	alive      bool
	facingLeft bool
	coyote     int
	jumpHold   int
	jumpHeld   bool

	anims   map[string]*Animation
	current string
}

func newPlayer(spec prefabs.PlayerSpec, world *physicsWorld, c *content.Content) *player {
	p := &player{spec: spec, world: world, sink: c, anims: make(map[string]*Animation)}
	sheets := map[string]int{
		animIdle:      content.PlayerIdle,
		animRun:       content.PlayerRun,
		animJump:      content.PlayerJump,
		animCelebrate: content.PlayerCelebrate,
		animDie:       content.PlayerDie,
	}
	for name, idx := range sheets {
		var sheet *ebiten.Image
		if c != nil {
			sheet = c.Player[idx]
		}
		p.anims[name] = NewAnimation(sheet, spec.Animation[name])
	}
	return p
}

// reset puts a living player at p.
func (p *player) reset(at Point) {
	p.world.placePlayer(at)
	p.alive = true
	p.coyote = 0
	p.jumpHold = 0
	p.jumpHeld = false
	p.play(animIdle)
}

func (p *player) play(name string) {
	if p.current == name {
		return
	}
	p.current = name
	p.anims[name].Reset()
}

// update applies movement input. Input is ignored while dead.
func (p *player) update(dt float64, in input.Snapshot) {
	if !p.alive {
		in = input.Snapshot{}
	}
	v := p.world.velocity()
	grounded := p.world.grounded

	accel := p.spec.AirAccel
	if grounded {
		accel = p.spec.GroundAccel
	}
	v.X = common.Approach(v.X, in.MoveX*p.spec.MoveSpeed, accel*dt)
	if in.MoveX < 0 {
		p.facingLeft = true
	} else if in.MoveX > 0 {
		p.facingLeft = false
	}

	if grounded {
		p.coyote = p.spec.CoyoteFrames
	} else if p.coyote > 0 {
		p.coyote--
	}

	jump := in.Buttons.Jump
	switch {
	case jump && !p.jumpHeld && p.coyote > 0:
		v.Y = -p.spec.JumpSpeed
		p.jumpHold = p.spec.JumpHoldFrames
		p.coyote = 0
		p.sink.PlaySound(content.SoundPlayerJump)
	case jump && p.jumpHold > 0:
		v.Y -= p.spec.JumpHoldBoost
		p.jumpHold--
	case !jump:
		p.jumpHold = 0
	}
	p.jumpHeld = jump

	v.Y = math.Min(v.Y, p.spec.MaxFallSpeed)
	p.world.setVelocity(v)

	if p.alive {
		switch {
		case !grounded:
			p.play(animJump)
		case math.Abs(v.X) > 1:
			p.play(animRun)
		default:
			p.play(animIdle)
		}
	}
}

func (p *player) kill(sound int) {
	if !p.alive {
		return
	}
	p.alive = false
	p.world.setVelocity(cp.Vector{})
	p.sink.PlaySound(sound)
	p.play(animDie)
}

func (p *player) celebrate() {
	p.play(animCelebrate)
}

func (p *player) bounds() Rect {
	return rectAround(p.world.feet(), p.spec.Collider.Width, p.spec.Collider.Height)
}

func (p *player) draw(screen *ebiten.Image, camX float64) {
	f := p.world.feet()
	p.anims[p.current].Draw(screen, f.X-camX, f.Y, p.facingLeft)
}
