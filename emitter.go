package particles

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// timeTolerance absorbs float drift so that any split of deltas summing to T
// fires the same number of release events.
const timeTolerance = 1e-6

// Emitter schedules timed releases of particles into the pool.
type Emitter struct {
	NumToRelease    int
	ReleaseInterval float32
	Position        mgl32.Vec3
	Velocity        mgl32.Vec3

	// Optional spawn jitter; zero means every particle spawns exactly at
	// Position with Velocity*scale.
	PositionJitter float32
	VelocityJitter float32

	accumulated float64
	rng         *rand.Rand
}

func newEmitter(seed uint64) Emitter {
	return Emitter{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (e *Emitter) reseed(seed uint64) {
	e.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Accumulated returns the time carried toward the next release event.
func (e *Emitter) Accumulated() float64 { return e.accumulated }

func (e *Emitter) resetTimer() { e.accumulated = 0 }

// advance adds dt to the timer and returns how many release events are due.
// The timer is always drained below ReleaseInterval, even when the caller has
// no room for the particles.
func (e *Emitter) advance(dt float64) int {
	interval := float64(e.ReleaseInterval)
	if interval <= 0 {
		return 0
	}
	e.accumulated += dt
	events := math.Floor((e.accumulated + timeTolerance) / interval)
	e.accumulated -= events * interval
	if e.accumulated < 0 {
		e.accumulated = 0
	}
	if events > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(events)
}

// spawn returns the initial state of a freshly released particle.
func (e *Emitter) spawn(velocityScale float32) (pos, vel mgl32.Vec3) {
	pos = e.Position
	vel = e.Velocity.Mul(velocityScale)
	if e.PositionJitter > 0 {
		pos = pos.Add(e.unitCube().Mul(e.PositionJitter))
	}
	if e.VelocityJitter > 0 {
		vel = vel.Add(e.unitCube().Mul(e.VelocityJitter))
	}
	return pos, vel
}

func (e *Emitter) unitCube() mgl32.Vec3 {
	return mgl32.Vec3{
		e.rng.Float32()*2 - 1,
		e.rng.Float32()*2 - 1,
		e.rng.Float32()*2 - 1,
	}
}
