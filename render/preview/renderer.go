package preview

import (
	"fmt"
	"image/color"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render"
)

// Renderer is a particles.DrawContext that reads the snapshot back out of a
// ByteSink and splats it onto a Canvas.
type Renderer struct {
	Sink   *particles.ByteSink
	Canvas *Canvas
	Camera render.Orbit
	HUD    bool

	verts []particles.Vertex
	drawn int
}

func NewRenderer(sink *particles.ByteSink, width, height int) (*Renderer, error) {
	c, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	return &Renderer{Sink: sink, Canvas: c, Camera: render.DefaultOrbit()}, nil
}

func (r *Renderer) DrawPoints(count uint32) {
	r.verts = particles.DecodeVertices(r.Sink.Vertices(), int(count), r.verts[:0])
	aspect := float32(r.Canvas.Width()) / float32(r.Canvas.Height())
	vp := r.Camera.Projection(aspect).Mul4(r.Camera.View())
	r.drawn = r.Canvas.Splat(vp, r.verts)
}

// Frame clears the canvas, lets s draw into it and stamps the stats line.
func (r *Renderer) Frame(s *particles.System) {
	r.Canvas.Clear()
	r.drawn = 0
	s.Draw(r)
	if r.HUD {
		st := s.Stats()
		r.Canvas.Label(6, 16, fmt.Sprintf("frame %d  active %d  t=%.2fs", st.Frame, st.Active, s.Elapsed()),
			color.RGBA{200, 200, 120, 255})
	}
}

// Drawn is the number of particles that landed on the canvas last frame.
func (r *Renderer) Drawn() int { return r.drawn }
