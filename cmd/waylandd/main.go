// Command waylandd runs the compositor core against either a real SDL
// window or the dependency-free headless stage.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sys/unix"

	"github.com/wlcore/compositor/compositor"
	"github.com/wlcore/compositor/hostloop"
	"github.com/wlcore/compositor/scene"
	"github.com/wlcore/compositor/scene/headless"
	"github.com/wlcore/compositor/scene/sdlstage"
)

func main() {
	var (
		socketName = flag.String("socket", "wayland-0", "display socket name under $XDG_RUNTIME_DIR")
		backend    = flag.String("backend", "sdl", "scene backend: sdl or headless")
		width      = flag.Int("width", 1024, "output mode pixel width (initial window width for the sdl backend)")
		height     = flag.Int("height", 768, "output mode pixel height (initial window height for the sdl backend)")
		widthMM    = flag.Int("mm-width", 1024, "output physical width in millimetres, as advertised over wl_output; also sets the stage width")
		heightMM   = flag.Int("mm-height", 768, "output physical height in millimetres, as advertised over wl_output; also sets the stage height")
		refresh    = flag.Int("refresh", 60, "refresh rate in Hz, advertised over wl_output and used as the paint clock")
	)
	flag.Parse()

	loop, err := hostloop.New()
	if err != nil {
		log.Fatalf("waylandd: create host loop: %v", err)
	}
	defer loop.Close()

	var stage scene.Stage
	var clock hostloop.Source
	switch *backend {
	case "sdl":
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			log.Fatalf("waylandd: sdl.Init: %v", err)
		}
		defer sdl.Quit()
		sdlStage, err := sdlstage.New("waylandd", *width, *height)
		if err != nil {
			log.Fatalf("waylandd: create sdl stage: %v", err)
		}
		defer sdlStage.Close()
		stage = sdlStage
		clockSrc, err := sdlstage.NewClockSource(sdlStage, *refresh)
		if err != nil {
			log.Fatalf("waylandd: create paint clock: %v", err)
		}
		defer clockSrc.Close()
		clock = clockSrc
	case "headless":
		headlessStage := headless.New()
		stage = headlessStage
		clockSrc, err := newHeadlessClock(headlessStage, *refresh)
		if err != nil {
			log.Fatalf("waylandd: create paint clock: %v", err)
		}
		defer clockSrc.Close()
		clock = clockSrc
	default:
		log.Fatalf("waylandd: unknown -backend %q (want sdl or headless)", *backend)
	}

	comp, err := compositor.New(compositor.Config{
		SocketName:     *socketName,
		OutputWidthMM:  *widthMM,
		OutputHeightMM: *heightMM,
		Modes: []compositor.Mode{
			{Width: *width, Height: *height, Refresh: *refresh * 1000, Current: true},
		},
	}, stage)
	if err != nil {
		log.Fatalf("waylandd: start compositor: %v", err)
	}
	defer comp.Close()

	if err := loop.AddSource(comp.EventLoopSource()); err != nil {
		log.Fatalf("waylandd: register event-loop source: %v", err)
	}
	if err := loop.AddSource(clock); err != nil {
		log.Fatalf("waylandd: register paint clock: %v", err)
	}

	stop := make(chan struct{})
	sig, err := newSignalSource(stop, os.Interrupt, unix.SIGTERM)
	if err != nil {
		log.Fatalf("waylandd: install signal handler: %v", err)
	}
	defer sig.Close()
	if err := loop.AddSource(sig); err != nil {
		log.Fatalf("waylandd: register signal source: %v", err)
	}

	log.Printf("waylandd: listening on $XDG_RUNTIME_DIR/%s (backend=%s)", *socketName, *backend)
	if err := loop.Run(stop); err != nil {
		log.Fatalf("waylandd: event loop: %v", err)
	}
}
