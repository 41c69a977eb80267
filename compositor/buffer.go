package compositor

import (
	"log"

	"github.com/wlcore/compositor/format"
	"github.com/wlcore/compositor/scene"
	"github.com/wlcore/compositor/wire"
)

// shmSource is the scene.BufferSource view over one shm-backed buffer's
// slice of its pool's mmapped bytes.
type shmSource struct {
	data                  []byte
	offset                int
	width, height, stride int
	format                scene.PixelFormat
}

func (s *shmSource) Size() (w, h, stride int)  { return s.width, s.height, s.stride }
func (s *shmSource) Format() scene.PixelFormat { return s.format }
func (s *shmSource) ReadRegion(x, y, w, h int) []byte {
	region := format.Region{Src: s.data[s.offset:], Stride: s.stride, BytesPerPixel: 4}
	return region.Crop(x, y, w, h)
}

// Buffer is the protocol identity of one wl_buffer, the set of Surfaces
// currently attached to it (the forward edge of the bidirectional
// attach relationship; Surface.buffer is the reverse edge), and, for
// shm-backed buffers, a lazily-read pixel source.
//
// A Buffer is jointly owned by its protocol identity and its attached
// Surfaces: destroying the protocol object while Surfaces still hold it
// must not sever those Surfaces' references, so live tracks whether the
// protocol identity is still alive and the record is only dropped from
// the registry once live is false and attached is empty — whichever of
// the two happens last.
type Buffer struct {
	proto    *wire.Resource
	attached []*Surface
	live     bool
	reg      *BufferRegistry

	// src is nil for a buffer this registry has not seen created via
	// wl_shm_pool.create_buffer — the non-shm buffer, created lazily on
	// first attach, path. No global this core advertises produces such a
	// buffer today, but a foreign wl_buffer implementation could still
	// appear on the wire, so the path is kept.
	src *shmSource
}

// Proto returns the buffer's protocol identity — its pointer doubles as
// the BufferRegistry's key, so this is also the value other code
// compares against to test "same buffer" identity.
func (b *Buffer) Proto() *wire.Resource { return b.proto }

func (b *Buffer) attach(surf *Surface) {
	for _, s := range b.attached {
		if s == surf {
			return
		}
	}
	b.attached = append(b.attached, surf)
}

func (b *Buffer) detach(surf *Surface) {
	for i, s := range b.attached {
		if s == surf {
			b.attached = append(b.attached[:i], b.attached[i+1:]...)
			break
		}
	}
	if !b.live && len(b.attached) == 0 && b.reg != nil {
		b.reg.free(b)
	}
}

// BufferRegistry is the Buffer lookup table keyed by each buffer's
// protocol identity; the reverse direction is just Buffer.proto, so only
// the forward map is needed. Grounded on tws_buffer_new /
// tws_buffer_free / shm_buffer_* in test-wayland-surface.c.
type BufferRegistry struct {
	byProto map[*wire.Resource]*Buffer
}

func newBufferRegistry() *BufferRegistry {
	return &BufferRegistry{byProto: make(map[*wire.Resource]*Buffer)}
}

// onCreated installs a Buffer record for proto. src is nil for the lazy
// non-shm path. Grounded on tws_buffer_new / shm_buffer_created.
func (br *BufferRegistry) onCreated(proto *wire.Resource, src *shmSource) *Buffer {
	b := &Buffer{proto: proto, src: src, live: true, reg: br}
	br.byProto[proto] = b
	return b
}

// free drops b's registry entry. Called once both halves of its joint
// ownership are gone: the protocol identity destroyed and the last
// attached Surface detached, in either order.
func (br *BufferRegistry) free(b *Buffer) {
	delete(br.byProto, b.proto)
}

// onDamaged forwards a damaged sub-rectangle to every Surface currently
// displaying the buffer. Grounded on shm_buffer_damaged. Nothing in this
// core's protocol surface currently calls this (wl_surface.damage is a
// deliberate no-op, see handleDamage), but it is exercised directly by
// buffer_test.go since the shm callback contract is part of this core
// regardless of whether a request wires into it yet.
func (br *BufferRegistry) onDamaged(proto *wire.Resource, x, y, w, h int) {
	b, ok := br.byProto[proto]
	if !ok {
		log.Printf("%v", ErrUnknownBuffer)
		return
	}
	for _, s := range b.attached {
		s.damageBuffer(b, x, y, w, h)
	}
}

// onDestroyed marks the protocol identity gone. A Buffer still shown on
// one or more Surfaces outlives its protocol object: the record stays
// in the registry, and attached Surfaces keep their reference, until
// the last of those Surfaces detaches too (Buffer.detach calls back
// into free). Grounded on tws_buffer_free, generalized so destroying
// the proto-buffer no longer assumes it is the only owner.
func (br *BufferRegistry) onDestroyed(proto *wire.Resource) {
	b, ok := br.byProto[proto]
	if !ok {
		return
	}
	b.live = false
	if len(b.attached) == 0 {
		br.free(b)
	}
}
