package level

import (
	"math"

	"github.com/milk9111/platformer2d/common"
)

// camera tracks the horizontal view into the level.
type camera struct {
	X float64

	viewW  float64
	worldW float64
	// margin is the fraction of the view the target may move in before the
	// camera scrolls.
	margin float64
}

func newCamera(viewW, worldW float64) camera {
	return camera{viewW: viewW, worldW: worldW, margin: 0.35}
}

// Follow scrolls so targetX stays inside the margins, clamped to the world.
func (c *camera) Follow(targetX float64) {
	left := c.X + c.viewW*c.margin
	right := c.X + c.viewW*(1-c.margin)
	switch {
	case targetX < left:
		c.X += targetX - left
	case targetX > right:
		c.X += targetX - right
	}
	c.clamp()
}

func (c *camera) SnapTo(targetX float64) {
	c.X = targetX - c.viewW/2
	c.clamp()
}

func (c *camera) clamp() {
	maxX := c.worldW - c.viewW
	if maxX < 0 {
		// world narrower than the view
		c.X = maxX / 2
		return
	}
	c.X = common.Clamp(c.X, 0, maxX)
	c.X = math.Round(c.X)
}
