// Package compositor implements the Wayland compositor core: object
// registries for wl_compositor, wl_shm, wl_shell, wl_output, wl_surface,
// wl_buffer and wl_callback; the buffer/surface attachment invariants;
// shm buffer lifecycle callbacks; and per-frame presentation callback
// sequencing.
//
// It depends on wire for protocol framing, hostloop for its event-loop
// bridge, and scene for its rendering collaborator — never on a concrete
// scene backend, so compositor/*_test.go exercises every invariant
// against scene/headless instead of a real window.
package compositor
