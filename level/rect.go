package level

type Rect struct {
	X, Y          float64
	Width, Height float64
}

// rectAround builds the box of a body whose bottom center is at p.
func rectAround(p Point, w, h float64) Rect {
	return Rect{X: p.X - w/2, Y: p.Y - h, Width: w, Height: h}
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IntersectsCircle reports whether the circle at c with radius touches r.
func (r Rect) IntersectsCircle(c Point, radius float64) bool {
	nx := max(r.X, min(c.X, r.X+r.Width))
	ny := max(r.Y, min(c.Y, r.Y+r.Height))
	dx, dy := c.X-nx, c.Y-ny
	return dx*dx+dy*dy <= radius*radius
}
