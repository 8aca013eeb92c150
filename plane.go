package particles

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CollisionResponse selects what happens to a particle that reaches the
// non-positive side of the collision plane.
type CollisionResponse int

const (
	// CollisionBounce clamps the particle onto the plane and reflects the
	// normal component of its velocity, scaled by the restitution.
	CollisionBounce CollisionResponse = iota
	// CollisionKill retires the particle on contact.
	CollisionKill
	// CollisionNone ignores the plane.
	CollisionNone
)

func (r CollisionResponse) String() string {
	switch r {
	case CollisionBounce:
		return "bounce"
	case CollisionKill:
		return "kill"
	case CollisionNone:
		return "none"
	}
	return "unknown"
}

// DefaultRestitution loses half of the normal speed on every bounce.
const DefaultRestitution = 0.5

// minNormalLength below which a plane normal is treated as unset.
const minNormalLength = 1e-6

// CollisionPlane is a static half-space boundary. Normal is kept unit length.
type CollisionPlane struct {
	Normal  mgl32.Vec3
	Point   mgl32.Vec3
	Enabled bool
}

// NewCollisionPlane normalizes normal. A degenerate normal yields a disabled plane.
func NewCollisionPlane(normal, point mgl32.Vec3) CollisionPlane {
	l := normal.Len()
	if l < minNormalLength {
		return CollisionPlane{Point: point}
	}
	return CollisionPlane{Normal: normal.Mul(1 / l), Point: point, Enabled: true}
}

// Distance is the signed distance of p: dot(p - Point, Normal).
func (c CollisionPlane) Distance(p mgl32.Vec3) float32 {
	return p.Sub(c.Point).Dot(c.Normal)
}

// contact reports whether a particle at pos moving with vel has reached the
// non-positive side of the plane.
func (c CollisionPlane) contact(pos, vel mgl32.Vec3) bool {
	d := c.Distance(pos)
	return d < 0 || (d == 0 && vel.Dot(c.Normal) < 0)
}

// bounce clamps pos onto the plane along Normal and reflects the inbound
// normal component of vel: v' = v - (1+e)*dot(v,n)*n.
func (c CollisionPlane) bounce(pos, vel *mgl32.Vec3, restitution float32) {
	if d := c.Distance(*pos); d < 0 {
		*pos = pos.Sub(c.Normal.Mul(d))
	}
	if vn := vel.Dot(c.Normal); vn < 0 {
		*vel = vel.Sub(c.Normal.Mul((1 + restitution) * vn))
	}
}
