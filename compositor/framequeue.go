package compositor

import (
	"time"

	"github.com/wlcore/compositor/wire"
)

const callbackDoneEventOpcode = 0

// FrameQueue is the compositor-wide pending-callback queue: every
// wl_callback a surface's "frame" request creates is appended here with
// no reference back to its surface, and the whole queue is drained
// atomically once per completed paint. Grounded on
// paint_finished_cb / tws_surface_frame / destroy_frame_callback in
// test-wayland-surface.c, where the callbacks live in a GArray owned by
// the compositor, not the surface.
type FrameQueue struct {
	pending []*wire.Resource
}

func (q *FrameQueue) enqueue(cb *wire.Resource) {
	q.pending = append(q.pending, cb)
}

// drain takes the queued callbacks and leaves the queue empty, then fires
// "done" on each with one shared timestamp — one paint, one instant —
// and destroys it.
func (q *FrameQueue) drain() {
	if len(q.pending) == 0 {
		return
	}
	ms := uint32(time.Now().UnixMilli())
	pending := q.pending
	// q.pending is reset to a fresh nil slice, not pending[:0]: a
	// destroy hook below can turn around and enqueue the next frame's
	// callback, and reusing pending's backing array would let that
	// append clobber entries this loop hasn't read yet.
	q.pending = nil
	for _, cb := range pending {
		w := &wire.ArgWriter{}
		w.Uint32(ms)
		_ = cb.PostEvent(callbackDoneEventOpcode, w)
		cb.Destroy()
	}
}
