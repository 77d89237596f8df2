package common

import "time"

const (
	// ScreenWidth and ScreenHeight are the base (logical) screen size.
	ScreenWidth  = 800
	ScreenHeight = 480

	TileWidth  = 40
	TileHeight = 32

	// TicksPerSecond is the fixed update rate ebiten drives the game with.
	TicksPerSecond = 60
)

// Tick is the timing snapshot handed to every per-frame update.
type Tick struct {
	// Elapsed is the time since the previous tick.
	Elapsed time.Duration
	// Total is the accumulated game time including this tick.
	Total time.Duration
}

// FixedStep is the elapsed time of one fixed-rate update.
const FixedStep = time.Second / TicksPerSecond

// Next returns the tick that follows t after one fixed step.
func (t Tick) Next() Tick {
	return Tick{Elapsed: FixedStep, Total: t.Total + FixedStep}
}

// Seconds returns Elapsed as float seconds.
func (t Tick) Seconds() float64 {
	return t.Elapsed.Seconds()
}
