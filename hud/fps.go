package hud

import "time"

// FPSCounter reports the number of frames seen in the previous whole second
// of game time.
type FPSCounter struct {
	window   int64
	current  int
	reported int
}

// Sample counts one frame at total and returns the reported rate.
func (f *FPSCounter) Sample(total time.Duration) int {
	w := int64(total / time.Second)
	if w != f.window {
		f.reported = f.current
		f.current = 0
		f.window = w
	}
	f.current++
	return f.reported
}

func (f *FPSCounter) FPS() int { return f.reported }
