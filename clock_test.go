package particles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTick(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewClock(start)

	dt := c.Tick(start.Add(16 * time.Millisecond))
	assert.InDelta(t, 0.016, dt, 1e-6)
	assert.Equal(t, 16*time.Millisecond, c.Dt)

	dt = c.Tick(start.Add(32 * time.Millisecond))
	assert.InDelta(t, 0.016, dt, 1e-6)
	assert.InDelta(t, 0.032, c.Elapsed(), 1e-9)
}

func TestClockClampsStalls(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewClock(start)
	assert.Equal(t, float32(MaxFrameDelta), c.Tick(start.Add(3*time.Second)))
	// going backwards yields zero, never a negative delta
	assert.Equal(t, float32(0), c.Tick(start))
}

func TestZeroClockStartsOnFirstTick(t *testing.T) {
	var c Clock
	assert.Equal(t, float32(0), c.Tick(time.Unix(5, 0)))
	assert.InDelta(t, 0.1, c.Tick(time.Unix(5, 100_000_000)), 1e-6)
}

func TestZeroClockClampsAfterFirstTick(t *testing.T) {
	var c Clock
	c.Tick(time.Unix(5, 0))
	assert.Equal(t, float32(MaxFrameDelta), c.Tick(time.Unix(6, 0)))
}
