// Package render holds the camera shared by the particle viewers.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPitch = -1.5
	maxPitch = 1.5
	minDist  = 1
)

// Orbit is a camera circling Target. Yaw and Pitch are radians.
type Orbit struct {
	Target   mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32
	Fov      float32 // vertical, degrees
	Near     float32
	Far      float32
}

// DefaultOrbit frames the presets: a fountain rising from the origin.
func DefaultOrbit() Orbit {
	return Orbit{
		Target:   mgl32.Vec3{0, 6, 0},
		Yaw:      0.6,
		Pitch:    0.25,
		Distance: 38,
		Fov:      45,
		Near:     0.1,
		Far:      500,
	}
}

// Rotate adds to yaw and pitch, clamping pitch short of the poles.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw += dYaw
	o.Pitch = mgl32.Clamp(o.Pitch+dPitch, minPitch, maxPitch)
}

func (o *Orbit) Zoom(factor float32) {
	o.Distance = float32(math.Max(float64(o.Distance*factor), minDist))
}

func (o Orbit) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	sp := float32(math.Sin(float64(o.Pitch)))
	cy := float32(math.Cos(float64(o.Yaw)))
	sy := float32(math.Sin(float64(o.Yaw)))
	return o.Target.Add(mgl32.Vec3{sy * cp, sp, cy * cp}.Mul(o.Distance))
}

func (o Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Eye(), o.Target, mgl32.Vec3{0, 1, 0})
}

func (o Orbit) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(o.Fov), aspect, o.Near, o.Far)
}

// Project maps a world point to viewport pixels. ok is false for points
// behind the camera or outside the clip volume.
func Project(viewProj mgl32.Mat4, p mgl32.Vec3, width, height int) (x, y, depth float32, ok bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if ndc[0] < -1 || ndc[0] > 1 || ndc[1] < -1 || ndc[1] > 1 || ndc[2] < -1 || ndc[2] > 1 {
		return 0, 0, 0, false
	}
	x = (ndc[0] + 1) * 0.5 * float32(width)
	y = (1 - ndc[1]) * 0.5 * float32(height)
	return x, y, ndc[2], true
}
