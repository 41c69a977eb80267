package compositor

import (
	"testing"

	"github.com/wlcore/compositor/scene/headless"
	"github.com/wlcore/compositor/wire"
)

// newScenarioCompositor builds a Compositor with no live wire.Server, so
// these tests can drive request handlers and the frame/buffer registries
// directly without a real display socket or $XDG_RUNTIME_DIR.
func newScenarioCompositor() (*Compositor, *headless.Stage) {
	stage := headless.New()
	c := &Compositor{
		stage:   stage,
		buffers: newBufferRegistry(),
		frames:  &FrameQueue{},
		output:  NewOutput(0, 0, 800, 600, []Mode{{Width: 800, Height: 600, Refresh: 60000, Current: true}}),
	}
	stage.ConnectPaintFinished(c.frames.drain)
	return c, stage
}

// S1 (attach-damage-paint, attach half): attaching an shm buffer to a
// freshly created surface shows it on the surface's actor.
func TestScenarioAttachShowsBufferOnActor(t *testing.T) {
	c, stage := newScenarioCompositor()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	s, err := c.createSurface(client, 100)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}

	bufRes, err := client.NewResource(200, "wl_buffer")
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	c.buffers.onCreated(bufRes, &shmSource{data: make([]byte, 64), width: 4, height: 4, stride: 16})

	ar := wire.NewArgReader(attachArgs(200, 0, 0), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("handleSurfaceAttach: %v", err)
	}

	if len(stage.Actors) != 1 || stage.Actors[0].Attached == nil {
		t.Fatalf("actor did not receive the attached buffer")
	}
}

// S2 (idempotent reattach) / property 2: re-attaching the exact same
// buffer a surface is already showing is a no-op, not a detach/reattach
// cycle.
func TestScenarioReattachSameBufferIsNoop(t *testing.T) {
	c, _ := newScenarioCompositor()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	s, err := c.createSurface(client, 100)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}
	bufRes, _ := client.NewResource(200, "wl_buffer")
	buf := c.buffers.onCreated(bufRes, &shmSource{data: make([]byte, 64), width: 4, height: 4, stride: 16})

	ar := wire.NewArgReader(attachArgs(200, 0, 0), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	ar = wire.NewArgReader(attachArgs(200, 5, 5), nil)
	if err := c.handleSurfaceAttach(client, s, ar); err != nil {
		t.Fatalf("second attach: %v", err)
	}

	if len(buf.attached) != 1 {
		t.Fatalf("buffer.attached = %v, want exactly one entry", buf.attached)
	}
	if x, y := s.Position(); x != 5 || y != 5 {
		t.Fatalf("Position() = (%d,%d), want (5,5): re-attach still updates the surface-local offset", x, y)
	}
}

// Property 1 (attach invariant): attaching a different buffer detaches
// the old one and attaches the new one, keeping Invariant 1 (at most one
// buffer per surface) intact.
func TestScenarioAttachDifferentBufferSwapsAttachment(t *testing.T) {
	c, _ := newScenarioCompositor()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	s, err := c.createSurface(client, 100)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}
	buf1Res, _ := client.NewResource(200, "wl_buffer")
	buf1 := c.buffers.onCreated(buf1Res, &shmSource{width: 4, height: 4, stride: 16})
	buf2Res, _ := client.NewResource(201, "wl_buffer")
	buf2 := c.buffers.onCreated(buf2Res, &shmSource{width: 4, height: 4, stride: 16})

	if err := c.handleSurfaceAttach(client, s, wire.NewArgReader(attachArgs(200, 0, 0), nil)); err != nil {
		t.Fatalf("attach buf1: %v", err)
	}
	if err := c.handleSurfaceAttach(client, s, wire.NewArgReader(attachArgs(201, 0, 0), nil)); err != nil {
		t.Fatalf("attach buf2: %v", err)
	}

	if s.buffer != buf2 {
		t.Fatalf("surface.buffer = %v, want buf2", s.buffer)
	}
	if len(buf1.attached) != 0 {
		t.Fatalf("buf1.attached = %v, want empty after being swapped out", buf1.attached)
	}
	if len(buf2.attached) != 1 {
		t.Fatalf("buf2.attached = %v, want exactly one entry", buf2.attached)
	}
}

// S5 (frame without attach) / property 5: a frame callback fires "done"
// and is destroyed once the stage reports a finished paint; the queue is
// empty afterward.
func TestScenarioFrameCallbackFiresOnPaintFinished(t *testing.T) {
	c, stage := newScenarioCompositor()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	s, err := c.createSurface(client, 100)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}

	destroyed := false
	if err := c.handleSurfaceFrame(client, s, wire.NewArgReader(newIDArgs(300), nil)); err != nil {
		t.Fatalf("handleSurfaceFrame: %v", err)
	}
	cbRes, _ := client.Lookup(300)
	cbRes.OnDestroy(func() { destroyed = true })

	if len(c.frames.pending) != 1 {
		t.Fatalf("frames.pending = %v, want one queued callback", c.frames.pending)
	}

	stage.FinishPaint()

	if !destroyed {
		t.Fatalf("frame callback was not destroyed after paint finished")
	}
	if len(c.frames.pending) != 0 {
		t.Fatalf("frames.pending = %v, want empty after drain", c.frames.pending)
	}
}

// S4 (buffer outlives protocol identity) / property 4: destroying the
// protocol buffer while a surface still shows it leaves the attachment
// intact (Buffer record persists with attached_to={s}); only the
// surface's own destroy frees the record.
func TestScenarioBufferOutlivesProtocolDestroyUntilSurfaceDestroy(t *testing.T) {
	c, _ := newScenarioCompositor()
	client, _, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	s, err := c.createSurface(client, 100)
	if err != nil {
		t.Fatalf("createSurface: %v", err)
	}
	bufRes, _ := client.NewResource(200, "wl_buffer")
	buf := c.buffers.onCreated(bufRes, &shmSource{width: 4, height: 4, stride: 16})
	if err := c.handleSurfaceAttach(client, s, wire.NewArgReader(attachArgs(200, 0, 0), nil)); err != nil {
		t.Fatalf("attach: %v", err)
	}

	c.buffers.onDestroyed(bufRes)

	if s.buffer != buf {
		t.Fatalf("surface.buffer = %v, want %v to persist after protocol buffer destroy", s.buffer, buf)
	}
	if _, ok := c.buffers.byProto[bufRes]; !ok {
		t.Fatalf("buffer record freed while still attached to %v", s)
	}

	s.proto.Destroy()

	if _, ok := c.buffers.byProto[bufRes]; ok {
		t.Fatalf("buffer record not freed after its last attached surface was destroyed")
	}
}

func newIDArgs(id wire.ObjectID) []byte {
	w := &wire.ArgWriter{}
	w.NewID(id)
	return w.Bytes()
}

// Unknown-buffer notification: damage reported against a buffer id the
// registry never saw created is dropped without panicking or returning
// an error.
func TestScenarioDamageOnUnknownBufferIsDropped(t *testing.T) {
	c, _ := newScenarioCompositor()
	unknown := wire.NewDetachedResource(999, "wl_buffer")
	c.buffers.onDamaged(unknown, 0, 0, 10, 10)
}
