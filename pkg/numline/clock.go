package numline

import "time"

// Clock supplies the current time in seconds for expiration bookkeeping.
// Injected so the fade/expire logic is testable without a global time source.
type Clock interface {
	Now() float64
}

// StepClock is a clock advanced explicitly, typically by the host's
// per-frame step call. It is the default clock for a number line.
type StepClock struct {
	elapsed float64
}

// Now returns the accumulated elapsed time in seconds.
func (c *StepClock) Now() float64 {
	return c.elapsed
}

// Advance moves the clock forward by dt seconds. Negative dt is ignored.
func (c *StepClock) Advance(dt float64) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// WallClock reads real elapsed time since the clock was created.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a wall clock starting at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns seconds elapsed since the clock was created.
func (c *WallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
