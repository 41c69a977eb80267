// Package headless is a dependency-free scene.Stage/scene.Actor fake used
// by compositor's tests and by waylandd -backend=headless when no real
// display is available.
package headless

import "github.com/wlcore/compositor/scene"

// Stage records every actor it was asked to create, and for each one the
// last attached buffer, the damage calls since that attach, and whether
// it was destroyed, so tests can assert on compositor behavior without a
// real renderer.
type Stage struct {
	Width, Height int
	Actors        []*Actor

	paintFinished func()
}

func New() *Stage { return &Stage{} }

func (s *Stage) SetSize(w, h int) { s.Width, s.Height = w, h }

func (s *Stage) NewActor(owner any) scene.Actor {
	a := &Actor{Owner: owner, stage: s}
	s.Actors = append(s.Actors, a)
	return a
}

func (s *Stage) ConnectPaintFinished(fn func()) { s.paintFinished = fn }

// FinishPaint simulates one completed paint cycle, the way a real scene
// backend would after presenting a frame.
func (s *Stage) FinishPaint() {
	if s.paintFinished != nil {
		s.paintFinished()
	}
}

// Rect is a damaged or attached region, recorded for test assertions.
type Rect struct{ X, Y, W, H int }

// Actor is the headless scene.Actor: it performs no real painting, only
// bookkeeping.
type Actor struct {
	Owner any

	stage     *Stage
	Attached  scene.BufferSource
	Damaged   []Rect
	Destroyed bool
}

func (a *Actor) AttachBuffer(src scene.BufferSource) error {
	a.Attached = src
	a.Damaged = nil
	return nil
}

func (a *Actor) DamageBuffer(src scene.BufferSource, x, y, w, h int) {
	a.Attached = src
	a.Damaged = append(a.Damaged, Rect{X: x, Y: y, W: w, H: h})
}

func (a *Actor) Destroy() {
	a.Destroyed = true
	for i, other := range a.stage.Actors {
		if other == a {
			a.stage.Actors = append(a.stage.Actors[:i], a.stage.Actors[i+1:]...)
			break
		}
	}
}
