package particles

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEmitterAdvanceDrainsTimer(t *testing.T) {
	e := newEmitter(1)
	e.ReleaseInterval = 0.25

	if got := e.advance(0.1); got != 0 {
		t.Fatalf("expected no release before the interval, got %d", got)
	}
	if got := e.advance(0.15); got != 1 {
		t.Fatalf("expected one release at the interval, got %d", got)
	}
	if got := e.advance(1.0); got != 4 {
		t.Fatalf("expected four releases for a full second, got %d", got)
	}
	if e.Accumulated() < 0 || e.Accumulated() >= 0.25 {
		t.Errorf("timer out of range: %f", e.Accumulated())
	}
}

func TestEmitterDisabledInterval(t *testing.T) {
	e := newEmitter(1)
	if got := e.advance(10); got != 0 {
		t.Errorf("zero interval must never release, got %d", got)
	}
}

func TestEmitterSpawnWithoutJitter(t *testing.T) {
	e := newEmitter(1)
	e.Position = mgl32.Vec3{1, 2, 3}
	e.Velocity = mgl32.Vec3{0, 1, 0}

	pos, vel := e.spawn(4)
	if pos != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected spawn position %v", pos)
	}
	if vel != (mgl32.Vec3{0, 4, 0}) {
		t.Errorf("unexpected spawn velocity %v", vel)
	}
}

func TestEmitterVelocityJitterBounds(t *testing.T) {
	e := newEmitter(9)
	e.Velocity = mgl32.Vec3{0, 1, 0}
	e.VelocityJitter = 0.5

	for i := 0; i < 100; i++ {
		_, vel := e.spawn(2)
		d := vel.Sub(mgl32.Vec3{0, 2, 0})
		for k := 0; k < 3; k++ {
			if d[k] < -0.5 || d[k] > 0.5 {
				t.Fatalf("velocity jitter %v outside half extent", d)
			}
		}
	}
}
