package particles

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	ErrAlreadyInitialized = errors.New("particle system already initialized")
	ErrSinkTooSmall       = errors.New("vertex sink too small for capacity")
	ErrNilSink            = errors.New("nil vertex sink")
)

// System owns a fixed-capacity particle pool, its emitter and collision plane,
// and writes a dense snapshot of the live particles into a renderer-provided
// sink every Update.
//
// A System is not safe for concurrent use. Update, Draw and Reset are meant to
// run on the render loop's thread, once per frame, in that order.
type System struct {
	id  uuid.UUID
	log Logger

	pending Settings
	live    Settings

	particles []Particle
	emitter   Emitter
	sink      VertexSink

	initialized bool
	active      int
	elapsed     float64
	stats       Stats
}

func NewSystem() *System {
	id := uuid.New()
	s := &System{
		id:      id,
		pending: DefaultSettings(),
	}
	s.SetLogger(nil)
	s.live = s.pending
	return s
}

func (s *System) ID() uuid.UUID { return s.id }

// SetLogger routes engine messages to l, tagged with the system ID.
// A nil logger silences the system.
func (s *System) SetLogger(l Logger) {
	if l == nil {
		s.log = NewNopLogger()
		return
	}
	s.log = withTag(l, "particles/"+s.id.String()[:8])
}

// Settings returns the live configuration, or the staged one before Initialize.
func (s *System) Settings() Settings {
	if !s.initialized {
		return s.pending
	}
	return s.live
}

func (s *System) SetMaxParticles(n int) {
	if n < 0 {
		s.log.Warnf("max particles %d clamped to 0", n)
	}
	s.pending.MaxParticles = clampCount(n)
	s.staged("max particles")
}

func (s *System) SetNumToRelease(n int) {
	if n < 0 {
		s.log.Warnf("release count %d clamped to 0", n)
	}
	s.pending.NumToRelease = clampCount(n)
	s.staged("release count")
}

func (s *System) SetReleaseInterval(seconds float32) {
	if !(seconds >= MinDuration) {
		s.log.Warnf("release interval %g clamped to %g", seconds, MinDuration)
	}
	s.pending.ReleaseInterval = clampDuration(seconds)
	s.staged("release interval")
}

func (s *System) SetLifeCycle(seconds float32) {
	if !(seconds >= MinDuration) {
		s.log.Warnf("life cycle %g clamped to %g", seconds, MinDuration)
	}
	s.pending.LifeCycle = clampDuration(seconds)
	s.staged("life cycle")
}

func (s *System) SetPosition(v mgl32.Vec3) {
	s.pending.Position = v
	s.staged("position")
}

func (s *System) SetVelocity(v mgl32.Vec3) {
	s.pending.Velocity = v
	s.staged("velocity")
}

func (s *System) SetGravity(v mgl32.Vec3) {
	s.pending.Gravity = v
	s.staged("gravity")
}

func (s *System) SetWind(v mgl32.Vec3) {
	s.pending.Wind = v
	s.staged("wind")
}

func (s *System) SetVelocityScale(scale float32) {
	s.pending.VelocityScale = scale
	s.staged("velocity scale")
}

// SetCollisionPlane installs the ground plane. A zero normal disables collision.
func (s *System) SetCollisionPlane(normal, point mgl32.Vec3) {
	s.pending.Plane = NewCollisionPlane(normal, point)
	if !s.pending.Plane.Enabled {
		s.log.Warnf("degenerate collision plane normal %v, collision disabled", normal)
	}
	s.staged("collision plane")
}

func (s *System) SetCollisionResponse(r CollisionResponse) {
	if r < CollisionBounce || r > CollisionNone {
		s.log.Warnf("unknown collision response %d, using bounce", int(r))
		r = CollisionBounce
	}
	s.pending.Response = r
	s.staged("collision response")
}

// SetRestitution sets the fraction of normal speed kept after a bounce, in [0,1).
func (s *System) SetRestitution(e float32) {
	s.pending.Restitution = clampRestitution(e)
	s.staged("restitution")
}

// SetJitter spreads spawn positions and velocities uniformly over a cube of
// the given half extents. Zero disables jitter.
func (s *System) SetJitter(position, velocity float32) {
	s.pending.PositionJitter = clampJitter(position)
	s.pending.VelocityJitter = clampJitter(velocity)
	s.staged("jitter")
}

func (s *System) SetSeed(seed uint64) {
	s.pending.Seed = seed
	s.staged("seed")
}

func (s *System) SetFade(f FadePolicy) {
	s.pending.Fade = f
	s.staged("fade")
}

func (s *System) staged(what string) {
	if s.initialized {
		s.log.Debugf("%s staged until next reset", what)
	}
}

// Initialize allocates the pool, binds sink as the snapshot destination and
// zeroes the emitter timer. Calling it again requires Release first.
func (s *System) Initialize(sink VertexSink) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if sink == nil {
		return ErrNilSink
	}
	need := s.pending.MaxParticles
	if have := SinkCapacity(sink); have < need {
		return fmt.Errorf("%w: need %d vertices, sink holds %d", ErrSinkTooSmall, need, have)
	}

	s.sink = sink
	s.live = s.pending
	s.particles = make([]Particle, s.live.MaxParticles)
	s.emitter = newEmitter(s.live.Seed)
	s.applyEmitter()
	s.clear()
	s.initialized = true

	s.log.Infof("initialized capacity=%d release=%d/%gs life=%gs",
		s.live.MaxParticles, s.live.NumToRelease, s.live.ReleaseInterval, s.live.LifeCycle)
	return nil
}

// Release unbinds the sink and frees the pool. The sink itself belongs to
// the renderer and is left untouched.
func (s *System) Release() {
	if !s.initialized {
		return
	}
	s.sink = nil
	s.particles = nil
	s.active = 0
	s.initialized = false
	s.log.Debugf("released")
}

func (s *System) Initialized() bool { return s.initialized }

// Reset deactivates every particle, zeroes the emitter timer and makes any
// staged settings live. Configuration values themselves are kept.
func (s *System) Reset() {
	if !s.initialized {
		return
	}
	prevSeed := s.live.Seed
	s.live = s.pending

	if limit := SinkCapacity(s.sink); s.live.MaxParticles > limit {
		s.log.Warnf("max particles %d exceeds bound sink, clamped to %d", s.live.MaxParticles, limit)
		s.live.MaxParticles = limit
	}
	if s.live.MaxParticles != len(s.particles) {
		s.particles = make([]Particle, s.live.MaxParticles)
	}
	if s.live.Seed != prevSeed {
		s.emitter.reseed(s.live.Seed)
	}
	s.applyEmitter()
	s.clear()
	s.sink.Flush(0)
	s.log.Debugf("reset")
}

func (s *System) applyEmitter() {
	s.emitter.NumToRelease = s.live.NumToRelease
	s.emitter.ReleaseInterval = s.live.ReleaseInterval
	s.emitter.Position = s.live.Position
	s.emitter.Velocity = s.live.Velocity
	s.emitter.PositionJitter = s.live.PositionJitter
	s.emitter.VelocityJitter = s.live.VelocityJitter
}

func (s *System) clear() {
	for i := range s.particles {
		s.particles[i] = Particle{}
	}
	s.emitter.resetTimer()
	s.active = 0
	s.elapsed = 0
	s.stats = Stats{}
}

// Update advances the simulation by dt seconds: release due particles,
// integrate, collide, retire expired particles, recolor and write the
// snapshot. A negative or NaN dt is treated as zero.
func (s *System) Update(dt float32) {
	if !s.initialized {
		return
	}
	if !(dt >= 0) {
		s.log.Debugf("invalid frame delta %g treated as 0", dt)
		dt = 0
	}
	if math.IsInf(float64(dt), 1) {
		dt = 0
	}

	cfg := &s.live
	st := Stats{Frame: s.stats.Frame + 1}
	s.elapsed += float64(dt)

	s.emit(dt, &st)

	accel := cfg.Gravity.Add(cfg.Wind).Mul(dt)
	collide := cfg.Plane.Enabled && cfg.Response != CollisionNone
	active := 0
	for i := range s.particles {
		p := &s.particles[i]
		if !p.Active {
			continue
		}

		p.Velocity = p.Velocity.Add(accel)
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Age += dt

		if collide && cfg.Plane.contact(p.Position, p.Velocity) {
			if cfg.Response == CollisionKill {
				p.Active = false
				st.Retired++
				continue
			}
			cfg.Plane.bounce(&p.Position, &p.Velocity, cfg.Restitution)
			st.Bounces++
		}

		if p.Age >= cfg.LifeCycle {
			p.Age = cfg.LifeCycle
			p.Active = false
			st.Retired++
			continue
		}

		p.Color = cfg.Fade.Color(p.Age / cfg.LifeCycle)
		active++
	}

	s.active = writeSnapshot(s.sink, s.particles)
	if s.active != active {
		s.log.Errorf("snapshot wrote %d of %d active particles", s.active, active)
	}
	st.Active = s.active
	s.stats = st
}

// emit activates up to NumToRelease free slots per due release event,
// scanning from the lowest free index. Releases that find the pool full are
// dropped.
func (s *System) emit(dt float32, st *Stats) {
	events := s.emitter.advance(float64(dt))
	if events == 0 || s.live.NumToRelease == 0 {
		return
	}
	next := 0
	for e := 0; e < events; e++ {
		for k := 0; k < s.live.NumToRelease; k++ {
			for next < len(s.particles) && s.particles[next].Active {
				next++
			}
			if next == len(s.particles) {
				st.Dropped += (events-e)*s.live.NumToRelease - k
				return
			}
			pos, vel := s.emitter.spawn(s.live.VelocityScale)
			s.particles[next] = Particle{
				Position: pos,
				Velocity: vel,
				Color:    s.live.Fade.Color(0),
				Active:   true,
			}
			st.Emitted++
			next++
		}
	}
}

// Draw hands the current snapshot to ctx. It never touches simulation state
// and draws nothing before the first Update.
func (s *System) Draw(ctx DrawContext) {
	if !s.initialized || ctx == nil || s.active == 0 {
		return
	}
	ctx.DrawPoints(uint32(s.active))
}

// ActiveCount is the number of particles in the last snapshot.
func (s *System) ActiveCount() int { return s.active }

func (s *System) Capacity() int { return len(s.particles) }

// Particles exposes the pool for inspection. Callers must not modify it.
func (s *System) Particles() []Particle { return s.particles }

func (s *System) Stats() Stats { return s.stats }

// Elapsed is the simulated time since the last Initialize or Reset.
func (s *System) Elapsed() float64 { return s.elapsed }

// EmitterTime is the time carried toward the next release event.
func (s *System) EmitterTime() float64 { return s.emitter.Accumulated() }
