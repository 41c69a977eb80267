// Package hostloop provides a small GSource-style cooperative main loop,
// the Go translation of the prepare/check/dispatch contract the original
// compositor built its Wayland event-loop bridge on (see
// wayland_event_source_{prepare,check,dispatch} in
// original_source/tests/interactive/test-wayland-surface.c), generalized
// so any number of fd-driven Sources can share one loop instead of just
// the protocol library's own fd.
package hostloop

// Source is one fd-driven participant in the loop.
type Source interface {
	// FD returns the file descriptor this source polls.
	FD() int
	// Events returns the epoll event mask this source wants.
	Events() uint32
	// Prepare runs before polling and returns the maximum time in
	// milliseconds the loop may block on this source's account, or -1 for
	// no preference.
	Prepare() (timeoutMs int)
	// Check runs after polling with the fd's observed events (0 if the
	// poll simply timed out) and reports whether Dispatch should run.
	Check(revents uint32) bool
	// Dispatch runs the source's work. It may add or remove other
	// sources on the owning Loop.
	Dispatch()
}
