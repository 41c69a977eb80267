package compositor

import (
	"log"

	"github.com/wlcore/compositor/wire"
)

const (
	shellMoveOpcode          = 0
	shellResizeOpcode        = 1
	shellSetToplevelOpcode   = 2
	shellSetTransientOpcode  = 3
	shellSetFullscreenOpcode = 4
)

// bindShell installs the wl_shell global. Grounded on tws_shell_interface:
// all five requests land directly on wl_shell itself, the surface passed
// as an explicit argument, with no intermediate shell_surface object.
// This core tracks no window-management state, so each handler just
// parses its argument tuple and returns.
func (c *Compositor) bindShell(client *wire.Client, id wire.ObjectID, version uint32) {
	res, err := client.NewResource(id, "wl_shell")
	if err != nil {
		log.Printf("compositor: bind wl_shell: %v", err)
		return
	}
	res.SetRequests(
		shellMove,
		shellResize,
		shellSetToplevel,
		shellSetTransient,
		shellSetFullscreen,
	)
}

// shellMove implements wl_shell.move(surface, input_device, time).
func shellMove(ar *wire.ArgReader) error {
	if _, err := ar.ObjectID(); err != nil { // surface
		return err
	}
	if _, err := ar.ObjectID(); err != nil { // input_device
		return err
	}
	_, err := ar.Uint32() // time
	return err
}

// shellResize implements wl_shell.resize(surface, input_device, time, edges).
func shellResize(ar *wire.ArgReader) error {
	if _, err := ar.ObjectID(); err != nil { // surface
		return err
	}
	if _, err := ar.ObjectID(); err != nil { // input_device
		return err
	}
	if _, err := ar.Uint32(); err != nil { // time
		return err
	}
	_, err := ar.Uint32() // edges
	return err
}

// shellSetToplevel implements wl_shell.set_toplevel(surface).
func shellSetToplevel(ar *wire.ArgReader) error {
	_, err := ar.ObjectID()
	return err
}

// shellSetTransient implements
// wl_shell.set_transient(surface, parent, x, y, flags).
func shellSetTransient(ar *wire.ArgReader) error {
	if _, err := ar.ObjectID(); err != nil { // surface
		return err
	}
	if _, err := ar.ObjectID(); err != nil { // parent
		return err
	}
	if _, err := ar.Int32(); err != nil { // x
		return err
	}
	if _, err := ar.Int32(); err != nil { // y
		return err
	}
	_, err := ar.Uint32() // flags
	return err
}

// shellSetFullscreen implements wl_shell.set_fullscreen(surface).
func shellSetFullscreen(ar *wire.ArgReader) error {
	_, err := ar.ObjectID()
	return err
}
