package engine

import (
	"math"

	"github.com/vovakirdan/skyline-sprint/internal/config"
)

// Clock converts variable host frame times into fixed simulation steps.
// All values are in seconds.
type Clock struct {
	step          float64
	maxSteps      int
	maxDelta      float64
	maxAccumulate float64

	acc     float64
	last    float64
	hasLast bool
	stopped bool
}

// NewClock creates a clock from the clock section of the balance config.
func NewClock(cfg config.ClockConfig) *Clock {
	return &Clock{
		step:          cfg.Step(),
		maxSteps:      cfg.MaxStepsPerFrame,
		maxDelta:      cfg.MaxFrameDelta,
		maxAccumulate: cfg.MaxAccumulate,
	}
}

// Step returns the fixed step size.
func (c *Clock) Step() float64 { return c.step }

// Stopped reports whether the clock is paused.
func (c *Clock) Stopped() bool { return c.stopped }

// Tick advances the clock to the host timestamp now and runs update once per
// whole step. It returns the number of steps run and whether accumulated time
// was discarded because the per-frame bound was reached.
func (c *Clock) Tick(now float64, update func(step float64)) (int, bool) {
	if c.stopped {
		return 0, false
	}
	delta := c.step
	if c.hasLast {
		delta = now - c.last
	}
	c.last = now
	c.hasLast = true
	return c.Advance(delta, update)
}

// Advance feeds a raw frame delta, for hosts that measure deltas themselves.
func (c *Clock) Advance(delta float64, update func(step float64)) (int, bool) {
	if c.stopped {
		return 0, false
	}
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) || delta > c.maxDelta {
		delta = c.step
	}
	c.acc += math.Min(delta, c.maxAccumulate)

	steps := 0
	for c.acc >= c.step && steps < c.maxSteps {
		update(c.step)
		c.acc -= c.step
		steps++
	}

	dropped := false
	if c.acc >= c.step {
		// whole steps beyond the bound are never replayed
		c.acc = math.Mod(c.acc, c.step)
		dropped = true
	}
	if c.acc < 0 {
		c.acc = 0
	}
	return steps, dropped
}

// Alpha returns the leftover fraction of a step for render interpolation.
func (c *Clock) Alpha() float64 {
	a := c.acc / c.step
	if a >= 1 {
		return math.Nextafter(1, 0)
	}
	return a
}

// Pause stops the clock. Calling it twice is harmless.
func (c *Clock) Pause() {
	c.stopped = true
}

// Resume restarts the clock from host timestamp now. No time between Pause
// and Resume is simulated.
func (c *Clock) Resume(now float64) {
	c.stopped = false
	c.last = now
	c.hasLast = true
	c.acc = 0
}

// Reset restores the initial state.
func (c *Clock) Reset() {
	c.acc = 0
	c.last = 0
	c.hasLast = false
	c.stopped = false
}
