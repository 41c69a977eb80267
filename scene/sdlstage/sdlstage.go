// Package sdlstage backs scene.Stage/scene.Actor with a real window: one
// github.com/veandco/go-sdl2 renderer and one streaming texture per
// Surface actor, grounded on ctxmenu.go's use of sdl.Window/sdl.Renderer
// and render.CreateTextureFromSurface (there, one texture per menu icon
// decoded by img.Load; here, one texture per Surface actor, updated from
// shm damage instead of a decoded image file).
package sdlstage

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/wlcore/compositor/format"
	"github.com/wlcore/compositor/scene"
)

// Stage is the real scene.Stage backend: one top-level window and
// hardware-accelerated renderer hosting every Surface's Actor.
type Stage struct {
	win    *sdl.Window
	render *sdl.Renderer
	width  int
	height int
	actors []*Actor

	paintFinished func()
}

// New opens a window titled title at the given logical pixel size.
// sdl.Init(sdl.INIT_VIDEO) must have been called once by the caller
// before any Stage is created (cmd/waylandd does this at startup).
func New(title string, width, height int) (*Stage, error) {
	win, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("sdlstage: create window: %w", err)
	}
	render, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("sdlstage: create renderer: %w", err)
	}
	return &Stage{win: win, render: render, width: width, height: height}, nil
}

func (s *Stage) SetSize(width, height int) {
	s.width, s.height = width, height
	s.win.SetSize(int32(width), int32(height))
}

// positioner is implemented by the owner passed to NewActor
// (*compositor.Surface in practice) so this package can place actors on
// the stage without importing the compositor package.
type positioner interface {
	Position() (x, y int)
}

func (s *Stage) NewActor(owner any) scene.Actor {
	a := &Actor{owner: owner, stage: s}
	s.actors = append(s.actors, a)
	return a
}

func (s *Stage) ConnectPaintFinished(fn func()) { s.paintFinished = fn }

// PumpEvents drains pending SDL events, discarding everything but window
// close — this core's shell requests are all no-ops, so there is nothing
// else to route input to.
func (s *Stage) PumpEvents() (quit bool) {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			return quit
		}
		if _, ok := ev.(*sdl.QuitEvent); ok {
			quit = true
		}
	}
}

// Present clears the stage, copies every attached actor's texture at its
// owner's reported position, and fires the paint-finished callback,
// which drains the frame-callback queue.
func (s *Stage) Present() {
	s.render.SetDrawColor(0, 0, 0, 255)
	s.render.Clear()
	for _, a := range s.actors {
		if a.texture == nil {
			continue
		}
		x, y := 0, 0
		if p, ok := a.owner.(positioner); ok {
			x, y = p.Position()
		}
		_ = s.render.Copy(a.texture, nil, &sdl.Rect{X: int32(x), Y: int32(y), W: int32(a.width), H: int32(a.height)})
	}
	s.render.Present()
	if s.paintFinished != nil {
		s.paintFinished()
	}
}

func (s *Stage) Close() {
	s.render.Destroy()
	s.win.Destroy()
}

// Actor is one Surface's texture on the stage.
type Actor struct {
	owner   any
	stage   *Stage
	texture *sdl.Texture
	width   int
	height  int
}

func (a *Actor) AttachBuffer(src scene.BufferSource) error {
	w, h, _ := src.Size()
	if a.texture == nil || a.width != w || a.height != h {
		if a.texture != nil {
			a.texture.Destroy()
		}
		tex, err := a.stage.render.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
		if err != nil {
			return fmt.Errorf("sdlstage: create texture: %w", err)
		}
		a.texture = tex
		a.width, a.height = w, h
	}
	pixels := format.ToRGBA(src.ReadRegion(0, 0, w, h), w, h, src.Format())
	return a.texture.Update(nil, pixels, w*4)
}

func (a *Actor) DamageBuffer(src scene.BufferSource, x, y, w, h int) {
	if a.texture == nil {
		_ = a.AttachBuffer(src)
		return
	}
	pixels := format.ToRGBA(src.ReadRegion(x, y, w, h), w, h, src.Format())
	_ = a.texture.Update(&sdl.Rect{X: int32(x), Y: int32(y), W: int32(w), H: int32(h)}, pixels, w*4)
}

func (a *Actor) Destroy() {
	if a.texture != nil {
		a.texture.Destroy()
		a.texture = nil
	}
	for i, other := range a.stage.actors {
		if other == a {
			a.stage.actors = append(a.stage.actors[:i], a.stage.actors[i+1:]...)
			break
		}
	}
}
