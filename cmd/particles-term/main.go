package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/inspect"
	"github.com/gekko3d/particles/render/term"
)

func main() {
	preset := flag.String("preset", "fountain", "Built-in preset name or path to a JSON config")
	logFile := flag.String("log", "", "Write log output to this file (the terminal is in use)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	inspectAddr := flag.String("inspect", "", "Serve the websocket inspector on this address")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := particles.NewWriterLogger("particles-term", *debug, out, out)

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
	sink := particles.NewByteSink(system.Settings().MaxParticles)
	if err := system.Initialize(sink); err != nil {
		fmt.Fprintf(os.Stderr, "initialize: %v\n", err)
		os.Exit(1)
	}
	defer system.Release()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	viewer := term.NewViewer(screen, system, sink, log)
	if *inspectAddr != "" {
		srv := inspect.NewServer(log)
		defer srv.Close()
		go func() {
			if err := srv.ListenAndServe(*inspectAddr); err != nil {
				log.Errorf("inspector: %v", err)
			}
		}()
		obs := &inspect.Observer{Server: srv, Every: 2, Limit: 2000, Pause: func() {
			viewer.Paused = !viewer.Paused
		}}
		viewer.OnFrame = obs.Observe
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	viewer.Run(ctx)
}
