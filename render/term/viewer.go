package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particles"
)

// FrameInterval is the viewer's tick, about 30 frames per second.
const FrameInterval = 33 * time.Millisecond

// Viewer runs a System in the terminal until the user quits or ctx ends.
type Viewer struct {
	System   *particles.System
	Renderer *Renderer
	Clock    *particles.Clock
	Log      particles.Logger
	Paused   bool

	// OnFrame, when set, runs after every simulated frame.
	OnFrame func(s *particles.System)
}

func NewViewer(screen tcell.Screen, s *particles.System, sink *particles.ByteSink, log particles.Logger) *Viewer {
	if log == nil {
		log = particles.NewNopLogger()
	}
	return &Viewer{
		System:   s,
		Renderer: NewRenderer(screen, sink),
		Log:      log,
	}
}

// HandleKey applies one key press. It returns false when the viewer should exit.
func (v *Viewer) HandleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.Renderer.Camera.Rotate(0.1, 0)
	case tcell.KeyRight:
		v.Renderer.Camera.Rotate(-0.1, 0)
	case tcell.KeyUp:
		v.Renderer.Camera.Rotate(0, 0.05)
	case tcell.KeyDown:
		v.Renderer.Camera.Rotate(0, -0.05)
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return false
		case ' ':
			v.System.Reset()
			v.Log.Infof("reset")
		case 'p':
			v.Paused = !v.Paused
		case '+', '=':
			v.Renderer.Camera.Zoom(0.9)
		case '-':
			v.Renderer.Camera.Zoom(1.1)
		}
	}
	return true
}

// Step advances the simulation to now and redraws.
func (v *Viewer) Step(now time.Time) {
	if v.Clock == nil {
		v.Clock = particles.NewClock(now)
	}
	dt := v.Clock.Tick(now)
	status := ""
	if v.Paused {
		dt = 0
		status = "paused"
	}
	v.System.Update(dt)
	if v.OnFrame != nil {
		v.OnFrame(v.System)
	}
	v.Renderer.Frame(v.System, status)
}

func (v *Viewer) Run(ctx context.Context) {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	screen := v.Renderer.Screen
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.HandleKey(ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			v.Step(now)
		}
	}
}
