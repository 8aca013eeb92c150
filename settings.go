package particles

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MinDuration is the floor applied to release intervals and life cycles.
const MinDuration = 1e-3

// Settings is the full configuration of a System. Setters stage values here;
// Initialize and Reset make them live.
type Settings struct {
	MaxParticles    int
	NumToRelease    int
	ReleaseInterval float32
	LifeCycle       float32

	Position      mgl32.Vec3
	Velocity      mgl32.Vec3
	VelocityScale float32

	Gravity mgl32.Vec3
	Wind    mgl32.Vec3

	Plane       CollisionPlane
	Response    CollisionResponse
	Restitution float32

	PositionJitter float32
	VelocityJitter float32
	Seed           uint64

	Fade FadePolicy
}

func DefaultSettings() Settings {
	return Settings{
		MaxParticles:    100,
		NumToRelease:    1,
		ReleaseInterval: 0.1,
		LifeCycle:       1,
		VelocityScale:   1,
		Response:        CollisionBounce,
		Restitution:     DefaultRestitution,
		Seed:            1,
		Fade:            DefaultFade(),
	}
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clampDuration(s float32) float32 {
	if !(s >= MinDuration) {
		return MinDuration
	}
	return s
}

func clampRestitution(e float32) float32 {
	if !(e >= 0) {
		return 0
	}
	if e >= 1 {
		return 0.999
	}
	return e
}

func clampJitter(j float32) float32 {
	if !(j > 0) {
		return 0
	}
	return j
}
