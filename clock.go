package particles

import (
	"time"
)

// MaxFrameDelta caps a single tick so a stall (window drag, debugger pause)
// does not dump seconds of emission into one frame.
const MaxFrameDelta = 0.25

// Clock turns wall-clock samples into per-frame deltas. The caller owns it and
// passes its values to the engine explicitly; nothing in the engine reads the
// time itself.
type Clock struct {
	Time    time.Time
	Dt      time.Duration
	elapsed float64
	started bool
}

func NewClock(now time.Time) *Clock {
	return &Clock{Time: now, started: true}
}

// Tick records now and returns the delta since the previous tick in seconds,
// clamped to [0, MaxFrameDelta].
func (c *Clock) Tick(now time.Time) float32 {
	if !c.started {
		c.Time = now
		c.started = true
		c.Dt = 0
		return 0
	}
	c.Dt = now.Sub(c.Time)
	c.Time = now

	dt := c.Dt.Seconds()
	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	c.elapsed += dt
	return float32(dt)
}

// Elapsed is the sum of all clamped deltas returned by Tick.
func (c *Clock) Elapsed() float64 { return c.elapsed }
