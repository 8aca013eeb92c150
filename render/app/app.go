// Package app hosts a particle System in a glfw window rendered with wgpu.
package app

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render"
	"github.com/gekko3d/particles/render/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Observer receives the system after every simulated frame.
type Observer func(s *particles.System)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Ring *gpu.VertexRing
	Pass *gpu.ParticlePass

	System *particles.System
	Clock  *particles.Clock
	Camera render.Orbit
	Log    particles.Logger

	Observers []Observer

	ClearColor wgpu.Color
	SpinRate   float32 // camera yaw in radians per simulated second
	Paused     bool
	DebugMode  bool

	dragging     bool
	lastX, lastY float64
	statsTime    float64
}

func NewApp(window *glfw.Window, system *particles.System, log particles.Logger) *App {
	if log == nil {
		log = particles.NewNopLogger()
	}
	return &App{
		Window:     window,
		System:     system,
		Camera:     render.DefaultOrbit(),
		Log:        log,
		ClearColor: wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1},
	}
}

// Init creates the device and surface, sizes a vertex ring for the system's
// staged capacity and binds it as the system's sink.
func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Ring, err = gpu.NewVertexRing(a.Device, a.System.Settings().MaxParticles, gpu.DefaultFramesInFlight)
	if err != nil {
		return err
	}
	a.Ring.Log = a.Log
	a.Pass, err = gpu.NewParticlePass(a.Device, a.Config.Format, a.Ring)
	if err != nil {
		return err
	}
	if err := a.System.Initialize(a.Ring); err != nil {
		return fmt.Errorf("bind particle system: %w", err)
	}
	a.Clock = particles.NewClock(time.Now())
	a.Log.Infof("renderer ready %dx%d format=%v frames=%d", width, height, a.Config.Format, a.Ring.Frames())
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

// Update steps the simulation by the wall-clock delta since the last frame.
func (a *App) Update() {
	dt := a.Clock.Tick(time.Now())
	if a.Paused {
		dt = 0
	}
	a.System.Update(dt)
	a.Camera.Rotate(a.SpinRate*dt, 0)
	for _, o := range a.Observers {
		o(a.System)
	}

	if a.DebugMode {
		a.statsTime += float64(dt)
		if a.statsTime >= 1 {
			a.statsTime = 0
			a.Log.Debugf("%s", a.System.Stats())
		}
	}
}

func (a *App) Render() {
	aspect := float32(a.Config.Width) / float32(a.Config.Height)
	if err := a.Pass.UpdateCamera(a.Camera.View(), a.Camera.Projection(aspect)); err != nil {
		fmt.Printf("ERROR: camera upload failed: %v\n", err)
		return
	}

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		fmt.Printf("ERROR: GetCurrentTexture failed: %v\n", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateView failed: %v\n", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateCommandEncoder failed: %v\n", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.ClearColor,
		}},
	})
	a.System.Draw(a.Pass.Drawer(rPass))
	if err := rPass.End(); err != nil {
		fmt.Printf("ERROR: Particle pass End failed: %v\n", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		fmt.Printf("ERROR: Encoder Finish failed: %v\n", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
	a.Ring.Advance()
}

// HandleKey: Space resets, P pauses, Escape quits.
func (a *App) HandleKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeySpace:
		a.System.Reset()
		a.Log.Infof("reset")
	case glfw.KeyP:
		a.Paused = !a.Paused
	case glfw.KeyEscape:
		a.Window.SetShouldClose(true)
	}
}

func (a *App) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	a.dragging = action == glfw.Press
	a.lastX, a.lastY = a.Window.GetCursorPos()
}

// HandleCursor orbits the camera while the left button is held.
func (a *App) HandleCursor(x, y float64) {
	if a.dragging {
		a.Camera.Rotate(float32(x-a.lastX)*-0.005, float32(y-a.lastY)*0.005)
	}
	a.lastX, a.lastY = x, y
}

func (a *App) HandleScroll(yoff float64) {
	if yoff > 0 {
		a.Camera.Zoom(0.9)
	} else if yoff < 0 {
		a.Camera.Zoom(1.1)
	}
}

func (a *App) Release() {
	a.System.Release()
	if a.Pass != nil {
		a.Pass.Release()
	}
	if a.Ring != nil {
		a.Ring.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
}
