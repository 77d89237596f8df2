package level

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer2d/common"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlatform
	collisionTypePlayer
	collisionTypeGroundSensor
)

const (
	// platformTolerance is how far feet may sink into a platform and still
	// land.
	platformTolerance = 6
	// risingSpeed is the upward speed above which a body passes platforms.
	risingSpeed = 10
)

// physicsWorld owns the Chipmunk space, the static level shapes and the
// player body.
type physicsWorld struct {
	grid  *Grid
	space *cp.Space

	body   *cp.Body
	shape  *cp.Shape
	ground *cp.Shape
	halfW  float64
	halfH  float64

	grounded bool
}

func newPhysicsWorld(grid *Grid, gravity float64) *physicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	pw := &physicsWorld{grid: grid, space: space}
	pw.buildStaticShapes()
	pw.setupHandlers()
	return pw
}

// addPlayer creates the player body with its bottom center at p.
func (pw *physicsWorld) addPlayer(p Point, w, h float64) {
	pw.halfW, pw.halfH = w/2, h/2

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: p.X, Y: p.Y - pw.halfH})

	shape := cp.NewBox(body, w, h, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePlayer)

	bb := cp.BB{L: -w * 0.45, B: pw.halfH, R: w * 0.45, T: pw.halfH + 2}
	ground := cp.NewBox2(body, bb, 0)
	ground.SetSensor(true)
	ground.SetCollisionType(collisionTypeGroundSensor)

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.space.AddShape(ground)
	pw.body, pw.shape, pw.ground = body, shape, ground
}

// placePlayer moves the player's bottom center to p and stops it.
func (pw *physicsWorld) placePlayer(p Point) {
	if pw.body == nil {
		return
	}
	pw.body.SetPosition(cp.Vector{X: p.X, Y: p.Y - pw.halfH})
	pw.body.SetVelocity(0, 0)
	pw.grounded = false
}

// feet is the player's bottom center.
func (pw *physicsWorld) feet() Point {
	pos := pw.body.Position()
	return Point{X: pos.X, Y: pos.Y + pw.halfH}
}

func (pw *physicsWorld) velocity() cp.Vector {
	return pw.body.Velocity()
}

func (pw *physicsWorld) setVelocity(v cp.Vector) {
	pw.body.SetVelocity(v.X, v.Y)
}

func (pw *physicsWorld) step(dt float64) {
	if pw.space == nil {
		return
	}
	pw.grounded = false
	pw.space.Step(dt)
}

func (pw *physicsWorld) dispose() {
	pw.space = nil
	pw.body, pw.shape, pw.ground = nil, nil, nil
}

func (pw *physicsWorld) buildStaticShapes() {
	pw.mergeTiles(Impassable, collisionTypeSolid, true)
	pw.mergeTiles(Platform, collisionTypePlatform, false)

	worldW, worldH := pw.grid.PixelSize()
	// side walls reach above the level so jumps can't leave it; the bottom
	// stays open
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: -worldH}, b: cp.Vector{X: 0, Y: worldH}},
		{a: cp.Vector{X: worldW, Y: -worldH}, b: cp.Vector{X: worldW, Y: worldH}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		pw.space.AddShape(shape)
	}
}

// mergeTiles covers runs of tiles with the given collision using as few
// static boxes as a greedy scan finds. Platforms only merge along rows.
func (pw *physicsWorld) mergeTiles(kind Collision, ct cp.CollisionType, vertical bool) {
	g := pw.grid
	processed := make([]bool, g.Width*g.Height)
	matches := func(x, y int) bool {
		idx := y*g.Width + x
		return !processed[idx] && g.Tiles[idx].Collision == kind
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !matches(x, y) {
				continue
			}

			w := 1
			for x+w < g.Width && matches(x+w, y) {
				w++
			}

			h := 1
		heightLoop:
			for vertical && y+h < g.Height {
				for xi := x; xi < x+w; xi++ {
					if !matches(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			x0 := float64(x * common.TileWidth)
			y0 := float64(y * common.TileHeight)
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(w*common.TileWidth), T: y0 + float64(h*common.TileHeight)}
			shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
			shape.SetFriction(0.8)
			shape.SetCollisionType(ct)
			pw.space.AddShape(shape)

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*g.Width+xx] = true
				}
			}
		}
	}
}

// onPlatform reports whether feet resting on a platform box should collide.
func (pw *physicsWorld) onPlatform(platform *cp.Shape) bool {
	if pw.body == nil {
		return false
	}
	top := platform.BB().B
	return pw.body.Velocity().Y > -risingSpeed && pw.feet().Y <= top+platformTolerance
}

func otherShape(arb *cp.Arbiter, self *cp.Shape) *cp.Shape {
	a, b := arb.Shapes()
	if a == self {
		return b
	}
	return a
}

func (pw *physicsWorld) setupHandlers() {
	groundHandler := pw.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeSolid)
	groundHandler.UserData = pw
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*physicsWorld)
		if !ok || world == nil {
			return true
		}
		world.grounded = true
		return true
	}

	groundPlatform := pw.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypePlatform)
	groundPlatform.UserData = pw
	groundPlatform.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*physicsWorld)
		if !ok || world == nil {
			return true
		}
		if world.onPlatform(otherShape(arb, world.ground)) {
			world.grounded = true
		}
		return true
	}

	// platforms only hold bodies coming down onto their top
	oneWay := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypePlatform)
	oneWay.UserData = pw
	oneWay.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*physicsWorld)
		if !ok || world == nil {
			return true
		}
		if world.onPlatform(otherShape(arb, world.shape)) {
			return true
		}
		arb.Ignore()
		return false
	}
}
