package compositor

import (
	"testing"

	"github.com/wlcore/compositor/scene/headless"
	"github.com/wlcore/compositor/wire"
)

func TestSurfacePositionReflectsLastAttach(t *testing.T) {
	stage := headless.New()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	c := &Compositor{stage: stage, buffers: newBufferRegistry(), frames: &FrameQueue{}}

	s, err := c.createSurface(client, 10)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}

	ar := wire.NewArgReader(attachArgs(0, 7, 9), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("handleSurfaceAttach: %v", err)
	}
	if x, y := s.Position(); x != 7 || y != 9 {
		t.Fatalf("Position() = (%d, %d), want (7, 9)", x, y)
	}
}

func TestSurfaceDamageRequestNeverReachesActor(t *testing.T) {
	stage := headless.New()
	s := newTestSurface(stage)

	ar := wire.NewArgReader(argInt32s(0, 0, 10, 10), nil)
	if err := s.handleDamage(ar); err != nil {
		t.Fatalf("handleDamage: %v", err)
	}

	ha := stage.Actors[0]
	if len(ha.Damaged) != 0 {
		t.Fatalf("wl_surface.damage must not reach the actor, got %v", ha.Damaged)
	}
}

// Invariant 4: a Surface's actor stays nil until a buffer has been
// successfully attached at least once.
func TestSurfaceActorCreatedLazilyOnFirstAttach(t *testing.T) {
	stage := headless.New()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	c := &Compositor{stage: stage, buffers: newBufferRegistry(), frames: &FrameQueue{}}

	s, err := c.createSurface(client, 10)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}
	if len(stage.Actors) != 0 || s.actor != nil {
		t.Fatalf("createSurface must not create an actor; stage.Actors = %v", stage.Actors)
	}

	bufRes, err := client.NewResource(20, "wl_buffer")
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	c.buffers.onCreated(bufRes, &shmSource{width: 2, height: 2, stride: 8})

	ar := wire.NewArgReader(attachArgs(20, 0, 0), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("handleSurfaceAttach: %v", err)
	}
	if len(stage.Actors) != 1 || s.actor == nil {
		t.Fatalf("actor was not created lazily after first attach")
	}
}

func TestSurfaceAttachZeroIDDetachesCurrentBuffer(t *testing.T) {
	stage := headless.New()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	c := &Compositor{stage: stage, buffers: newBufferRegistry(), frames: &FrameQueue{}}

	s, err := c.createSurface(client, 10)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}

	bufRes, err := client.NewResource(20, "wl_buffer")
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	buf := c.buffers.onCreated(bufRes, &shmSource{width: 2, height: 2, stride: 8})
	s.Attach(buf)

	ar := wire.NewArgReader(attachArgs(0, 0, 0), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("handleSurfaceAttach: %v", err)
	}
	if s.buffer != nil {
		t.Fatalf("surface.buffer = %v, want nil after attaching buffer id 0", s.buffer)
	}
	if len(buf.attached) != 0 {
		t.Fatalf("buffer.attached = %v, want empty after detach", buf.attached)
	}
}

func attachArgs(bufID wire.ObjectID, x, y int32) []byte {
	w := &wire.ArgWriter{}
	w.ObjectID(bufID)
	w.Int32(x)
	w.Int32(y)
	return w.Bytes()
}

func argInt32s(vs ...int32) []byte {
	w := &wire.ArgWriter{}
	for _, v := range vs {
		w.Int32(v)
	}
	return w.Bytes()
}
