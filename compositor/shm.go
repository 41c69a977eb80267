package compositor

import (
	"fmt"
	"log"

	"github.com/wlcore/compositor/scene"
	"github.com/wlcore/compositor/wire"
	"golang.org/x/sys/unix"
)

const shmFormatEventOpcode = 0

const (
	shmPoolCreateBufferOpcode = 0
	shmPoolDestroyOpcode      = 1
	shmPoolResizeOpcode       = 2
)

// shmPool is the live mapping behind one wl_shm_pool: the client's shared
// memory, mmapped once at create_pool and read lazily by every buffer
// carved out of it.
type shmPool struct {
	data []byte
}

// bindShm installs the wl_shm global, advertising the two pixel formats
// the scene backends understand.
func (c *Compositor) bindShm(client *wire.Client, id wire.ObjectID, version uint32) {
	shm, err := client.NewResource(id, "wl_shm")
	if err != nil {
		log.Printf("compositor: bind wl_shm: %v", err)
		return
	}
	shm.SetRequests(func(ar *wire.ArgReader) error { return c.handleShmCreatePool(client, ar) })

	for _, f := range []uint32{uint32(scene.FormatARGB8888), uint32(scene.FormatXRGB8888)} {
		w := &wire.ArgWriter{}
		w.Uint32(f)
		_ = shm.PostEvent(shmFormatEventOpcode, w)
	}
}

func (c *Compositor) handleShmCreatePool(client *wire.Client, ar *wire.ArgReader) error {
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	fd, err := ar.FD()
	if err != nil {
		return err
	}
	size, err := ar.Int32()
	if err != nil {
		return err
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	unix.Close(fd) // the mapping keeps the pages alive; the fd itself is not needed afterward
	if err != nil {
		return fmt.Errorf("compositor: mmap shm pool: %w", err)
	}

	pool, err := client.NewResource(id, "wl_shm_pool")
	if err != nil {
		unix.Munmap(data)
		return err
	}
	p := &shmPool{data: data}
	pool.SetRequests(
		func(ar *wire.ArgReader) error { return c.handlePoolCreateBuffer(client, p, ar) },
		func(ar *wire.ArgReader) error { pool.Destroy(); return nil },
		func(ar *wire.ArgReader) error { return handlePoolResize(ar) },
	)
	pool.OnDestroy(func() { _ = unix.Munmap(p.data) })
	return nil
}

func handlePoolResize(ar *wire.ArgReader) error {
	if _, err := ar.Int32(); err != nil {
		return err
	}
	// This core never grows an existing mapping after a buffer has
	// already read from it; a client wanting more room creates another
	// wl_shm_pool instead. Left unimplemented beyond argument parsing.
	return nil
}

func (c *Compositor) handlePoolCreateBuffer(client *wire.Client, p *shmPool, ar *wire.ArgReader) error {
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	offset, err := ar.Int32()
	if err != nil {
		return err
	}
	width, err := ar.Int32()
	if err != nil {
		return err
	}
	height, err := ar.Int32()
	if err != nil {
		return err
	}
	stride, err := ar.Int32()
	if err != nil {
		return err
	}
	pixFormat, err := ar.Uint32()
	if err != nil {
		return err
	}

	need := int(offset) + int(height)*int(stride)
	if height > 0 && need > len(p.data) {
		return fmt.Errorf("compositor: buffer %dx%d stride %d offset %d exceeds pool size %d",
			width, height, stride, offset, len(p.data))
	}

	bufRes, err := client.NewResource(id, "wl_buffer")
	if err != nil {
		return err
	}
	src := &shmSource{
		data:   p.data,
		offset: int(offset),
		width:  int(width),
		height: int(height),
		stride: int(stride),
		format: scene.PixelFormat(pixFormat),
	}
	c.buffers.onCreated(bufRes, src)
	bufRes.SetRequests(func(ar *wire.ArgReader) error { bufRes.Destroy(); return nil })
	bufRes.OnDestroy(func() { c.buffers.onDestroyed(bufRes) })
	return nil
}
