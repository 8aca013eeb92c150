package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

// findGlyph returns the first cell below the status line holding a ramp glyph.
func findGlyph(screen tcell.Screen) (rune, tcell.Style, bool) {
	w, h := screen.Size()
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, style, _ := screen.GetContent(x, y)
			for _, g := range ramp {
				if r == g {
					return r, style, true
				}
			}
		}
	}
	return 0, tcell.StyleDefault, false
}

func TestGlyphRamp(t *testing.T) {
	assert.Equal(t, ' ', Glyph(0))
	assert.Equal(t, ' ', Glyph(-1))
	assert.Equal(t, '.', Glyph(0.1))
	assert.Equal(t, '*', Glyph(0.5))
	assert.Equal(t, '@', Glyph(1))
	assert.Equal(t, '@', Glyph(7))
}

func TestRendererDrawsOpaqueParticle(t *testing.T) {
	screen := newScreen(t, 40, 20)
	o := render.DefaultOrbit()

	sink := particles.NewByteSink(4)
	buf := sink.Vertices()
	require.Len(t, buf, 4*particles.VertexStride)
	s := particles.NewSystem()
	s.SetMaxParticles(4)
	s.SetPosition(o.Target)
	s.SetVelocityScale(0)
	s.SetFade(particles.FadePolicy{From: [4]float32{1, 0, 0, 1}, To: [4]float32{1, 0, 0, 1}})
	require.NoError(t, s.Initialize(sink))
	s.Update(0.1)
	require.Equal(t, 1, s.ActiveCount())

	r := NewRenderer(screen, sink)
	r.Frame(s, "")
	assert.Equal(t, 1, r.Drawn())

	g, style, ok := findGlyph(screen)
	require.True(t, ok)
	assert.Equal(t, '@', g)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
}

func TestRendererEmptyBeforeUpdate(t *testing.T) {
	screen := newScreen(t, 30, 10)
	sink := particles.NewByteSink(8)
	s := particles.NewSystem()
	s.SetMaxParticles(8)
	require.NoError(t, s.Initialize(sink))

	r := NewRenderer(screen, sink)
	r.Frame(s, "")
	assert.Zero(t, r.Drawn())
	_, _, ok := findGlyph(screen)
	assert.False(t, ok)
}

func TestViewerKeys(t *testing.T) {
	screen := newScreen(t, 30, 10)
	sink := particles.NewByteSink(100)
	s := particles.NewSystem()
	require.NoError(t, s.Initialize(sink))
	v := NewViewer(screen, s, sink, nil)

	now := time.Unix(100, 0)
	v.Step(now)
	v.Step(now.Add(200 * time.Millisecond))
	require.Positive(t, s.ActiveCount())

	assert.True(t, v.HandleKey(tcell.KeyRune, ' '))
	assert.Zero(t, s.ActiveCount())

	assert.True(t, v.HandleKey(tcell.KeyRune, 'p'))
	assert.True(t, v.Paused)
	v.Step(now.Add(400 * time.Millisecond))
	assert.Zero(t, s.ActiveCount())

	yaw := v.Renderer.Camera.Yaw
	assert.True(t, v.HandleKey(tcell.KeyLeft, 0))
	assert.InDelta(t, yaw+0.1, v.Renderer.Camera.Yaw, 1e-6)

	assert.False(t, v.HandleKey(tcell.KeyRune, 'q'))
	assert.False(t, v.HandleKey(tcell.KeyEscape, 0))
}
