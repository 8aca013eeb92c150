package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/inspect"
	"github.com/gekko3d/particles/render/app"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	preset := flag.String("preset", "fountain", "Built-in preset name or path to a JSON config")
	debug := flag.Bool("debug", false, "Enable debug logging and per-second stats")
	spin := flag.Float64("spin", 0, "Auto-orbit speed in radians per second")
	inspectAddr := flag.String("inspect", "", "Serve the websocket inspector on this address (e.g. :8088)")
	flag.Parse()

	log := particles.NewDefaultLogger("particles", *debug)

	cfg, err := particles.ResolveConfig(*preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	system := particles.NewSystem()
	system.SetLogger(log)
	if err := cfg.Apply(system); err != nil {
		fmt.Fprintf(os.Stderr, "apply config: %v\n", err)
		os.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Particles - "+*preset, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, system, log)
	application.DebugMode = *debug
	application.SpinRate = float32(*spin)
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	if *inspectAddr != "" {
		srv := inspect.NewServer(log)
		defer srv.Close()
		go func() {
			if err := srv.ListenAndServe(*inspectAddr); err != nil {
				log.Errorf("inspector: %v", err)
			}
		}()
		obs := &inspect.Observer{Server: srv, Every: 2, Limit: 2000, Pause: func() {
			application.Paused = !application.Paused
		}}
		application.Observers = append(application.Observers, obs.Observe)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleKey(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.HandleCursor(xpos, ypos)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		application.HandleScroll(yoff)
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}
