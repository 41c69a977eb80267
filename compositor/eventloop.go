package compositor

import "golang.org/x/sys/unix"

// eventLoopSource adapts wire.Server onto hostloop.Source, exposing the
// protocol library's internal loop as a single pollable fd, which
// wire.Server.FD already is. Grounded on
// wayland_event_source_{prepare,check,dispatch}.
type eventLoopSource struct {
	c *Compositor
}

func (e *eventLoopSource) FD() int                  { return e.c.server.FD() }
func (e *eventLoopSource) Events() uint32           { return unix.EPOLLIN }
func (e *eventLoopSource) Prepare() int             { return -1 }
func (e *eventLoopSource) Check(events uint32) bool { return events != 0 }

func (e *eventLoopSource) Dispatch() {
	// A single client's protocol error is already handled inside
	// DispatchPending (wire posts it back to that client as a
	// wl_display error); anything returned here is infrastructure-level
	// and not actionable per-dispatch.
	_ = e.c.server.DispatchPending(0)
}
