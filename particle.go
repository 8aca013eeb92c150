package particles

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one simulated point. Slots live in the System's fixed pool;
// inactive slots are free and hold stale data.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Age      float32 // seconds since activation, 0 <= Age <= life cycle
	Color    mgl32.Vec4
	Active   bool
}

// Vertex is the per-particle record of the render snapshot.
// Layout: float32x3 position at offset 0, float32x4 color at offset 12.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

const (
	VertexPositionOffset = 0
	VertexColorOffset    = 12
	// VertexStride is the packed size of one Vertex in the snapshot buffer.
	VertexStride = 28
)

func (p *Particle) vertex() Vertex {
	return Vertex{
		Position: [3]float32{p.Position.X(), p.Position.Y(), p.Position.Z()},
		Color:    [4]float32{p.Color.X(), p.Color.Y(), p.Color.Z(), p.Color.W()},
	}
}
