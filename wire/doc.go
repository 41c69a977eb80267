// Package wire implements the Wayland wire protocol's server side: object
// id tables, message framing, SCM_RIGHTS file-descriptor passing, and the
// bootstrap wl_display/wl_registry machinery every client needs before it
// can bind anything. It has no opinion about which interfaces a compositor
// advertises — that is the job of package compositor, which registers
// Globals and installs per-resource request tables via Resource.
package wire
