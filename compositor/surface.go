package compositor

import (
	"log"

	"github.com/wlcore/compositor/scene"
	"github.com/wlcore/compositor/wire"
)

const (
	surfaceDestroyOpcode         = 0
	surfaceAttachOpcode          = 1
	surfaceDamageOpcode          = 2
	surfaceFrameOpcode           = 3
	surfaceSetOpaqueRegionOpcode = 4
	surfaceSetInputRegionOpcode  = 5
	surfaceCommitOpcode          = 6
)

// Surface is a compositor-space placement, at most one attached Buffer
// (the other half of the Buffer↔Surface attach relationship), and one
// scene Actor.
type Surface struct {
	proto *wire.Resource
	comp  *Compositor

	x, y   int
	buffer *Buffer
	actor  scene.Actor
}

// Position reports the surface's compositor-space placement. sdlstage
// reads this through its local positioner interface to place the actor
// without this package importing scene/sdlstage.
func (s *Surface) Position() (int, int) { return s.x, s.y }

// createSurface implements wl_compositor.create_surface. Grounded on
// tws_compositor_create_surface. It returns the new Surface so tests can
// drive its other request handlers directly; the wl_compositor global
// itself only needs the error.
func (c *Compositor) createSurface(client *wire.Client, id wire.ObjectID) (*Surface, error) {
	res, err := client.NewResource(id, "wl_surface")
	if err != nil {
		return nil, err
	}
	s := &Surface{proto: res, comp: c}
	c.surfaces = append(c.surfaces, s)

	res.SetRequests(
		func(ar *wire.ArgReader) error { res.Destroy(); return nil },
		func(ar *wire.ArgReader) error { return c.handleSurfaceAttach(client, s, ar) },
		func(ar *wire.ArgReader) error { return s.handleDamage(ar) },
		func(ar *wire.ArgReader) error { return c.handleSurfaceFrame(client, s, ar) },
		func(ar *wire.ArgReader) error { _, err := ar.ObjectID(); return err },
		func(ar *wire.ArgReader) error { _, err := ar.ObjectID(); return err },
		func(ar *wire.ArgReader) error { return nil },
	)
	res.OnDestroy(func() {
		s.detachBuffer()
		if s.actor != nil {
			s.actor.Destroy()
		}
		c.removeSurface(s)
	})
	return s, nil
}

// removeSurface drops s from the Compositor's live-surface list.
// Grounded on tws_surface_free's compositor->surfaces = g_list_remove(...).
func (c *Compositor) removeSurface(s *Surface) {
	for i, live := range c.surfaces {
		if live == s {
			c.surfaces = append(c.surfaces[:i], c.surfaces[i+1:]...)
			return
		}
	}
}

func (c *Compositor) handleSurfaceAttach(client *wire.Client, s *Surface, ar *wire.ArgReader) error {
	bufID, err := ar.ObjectID()
	if err != nil {
		return err
	}
	x, err := ar.Int32()
	if err != nil {
		return err
	}
	y, err := ar.Int32()
	if err != nil {
		return err
	}
	s.x, s.y = int(x), int(y)

	if bufID == 0 {
		s.Attach(nil)
		return nil
	}
	bufRes, ok := client.Lookup(bufID)
	if !ok {
		return errUnknownObject(bufID)
	}
	buf, ok := c.buffers.byProto[bufRes]
	if !ok {
		// Non-shm buffer: create the record lazily on first attach.
		buf = c.buffers.onCreated(bufRes, nil)
	}
	if s.buffer == buf {
		// Identity re-attach: no detach, and no second actor bind.
		return nil
	}
	if s.actor == nil {
		s.actor = c.stage.NewActor(s)
	}
	s.Attach(buf)
	if buf.src != nil {
		if err := s.actor.AttachBuffer(buf.src); err != nil {
			// Buffer-binding failures are logged, not rolled back — the
			// attach stands even though the actor has no pixels to show
			// yet.
			log.Printf("compositor: attach buffer to actor: %v", err)
		}
	}
	return nil
}

// Attach binds buf to s, preserving the original's identity re-attach
// guard verbatim: re-attaching the buffer a surface is already showing
// is a deliberate no-op rather than a detach/reattach cycle.
func (s *Surface) Attach(buf *Buffer) {
	if buf != nil && s.buffer == buf {
		return
	}
	s.detachBuffer()
	if buf != nil {
		s.buffer = buf
		buf.attach(s)
	}
}

func (s *Surface) detachBuffer() {
	if s.buffer != nil {
		s.buffer.detach(s)
		s.buffer = nil
	}
}

func (s *Surface) damageBuffer(b *Buffer, x, y, w, h int) {
	if s.buffer != b || b.src == nil {
		return
	}
	s.actor.DamageBuffer(b.src, x, y, w, h)
}

// handleDamage is deliberately a no-op: wl_surface.damage never reaches
// the actor in this core — only the shm buffer-level damage callback
// (BufferRegistry.onDamaged) does, and nothing in this core's protocol
// surface currently triggers that path either. The arguments are still
// parsed so a malformed request is still caught.
func (s *Surface) handleDamage(ar *wire.ArgReader) error {
	for i := 0; i < 4; i++ {
		if _, err := ar.Int32(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compositor) handleSurfaceFrame(client *wire.Client, s *Surface, ar *wire.ArgReader) error {
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	cb, err := client.NewResource(id, "wl_callback")
	if err != nil {
		return err
	}
	c.frames.enqueue(cb)
	return nil
}
