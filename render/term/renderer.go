// Package term draws particle snapshots into a terminal with tcell.
package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render"
)

// ramp is indexed by particle alpha, faintest first.
var ramp = []rune{'.', ':', '*', 'o', '@'}

// Renderer is a particles.DrawContext that projects the snapshot held in a
// ByteSink onto terminal cells. The nearest particle wins each cell.
type Renderer struct {
	Screen tcell.Screen
	Sink   *particles.ByteSink
	Camera render.Orbit

	verts []particles.Vertex
	depth []float32
	drawn int
}

func NewRenderer(screen tcell.Screen, sink *particles.ByteSink) *Renderer {
	return &Renderer{Screen: screen, Sink: sink, Camera: render.DefaultOrbit()}
}

// Glyph picks the ramp character for alpha a.
func Glyph(a float32) rune {
	if !(a > 0) {
		return ' '
	}
	i := int(a * float32(len(ramp)))
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return ramp[i]
}

func cellColor(c [4]float32) tcell.Color {
	ch := func(v float32) int32 {
		return int32(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return tcell.NewRGBColor(ch(c[0]), ch(c[1]), ch(c[2]))
}

func (r *Renderer) DrawPoints(count uint32) {
	w, h := r.Screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.verts = particles.DecodeVertices(r.Sink.Vertices(), int(count), r.verts[:0])
	if cap(r.depth) < w*h {
		r.depth = make([]float32, w*h)
	}
	r.depth = r.depth[:w*h]
	for i := range r.depth {
		r.depth[i] = math.MaxFloat32
	}

	// Cells are about twice as tall as they are wide.
	aspect := float32(w) / float32(2*h)
	vp := r.Camera.Projection(aspect).Mul4(r.Camera.View())
	r.drawn = 0
	for _, v := range r.verts {
		g := Glyph(v.Color[3])
		if g == ' ' {
			continue
		}
		fx, fy, d, ok := render.Project(vp, v.Position, w, h)
		if !ok {
			continue
		}
		x, y := min(int(fx), w-1), min(int(fy), h-1)
		if d >= r.depth[y*w+x] {
			continue
		}
		r.depth[y*w+x] = d
		r.Screen.SetContent(x, y, g, nil, tcell.StyleDefault.Foreground(cellColor(v.Color)))
		r.drawn++
	}
}

// Frame clears the screen, lets s draw and writes the status line.
func (r *Renderer) Frame(s *particles.System, status string) {
	r.Screen.Clear()
	r.drawn = 0
	s.Draw(r)

	st := s.Stats()
	line := fmt.Sprintf(" active %d/%d  frame %d  %s", st.Active, s.Capacity(), st.Frame, status)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for i, c := range line {
		r.Screen.SetContent(i, 0, c, nil, style)
	}
	r.Screen.Show()
}

// Drawn counts the cells written by the last DrawPoints.
func (r *Renderer) Drawn() int { return r.drawn }
