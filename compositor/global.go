package compositor

import (
	"log"

	"github.com/wlcore/compositor/wire"
)

const (
	compositorCreateSurfaceOpcode = 0
	compositorCreateRegionOpcode  = 1
)

// registerGlobals advertises every global this core exposes:
// wl_compositor, wl_shm, wl_shell, wl_output. Grounded on the
// wl_display_add_global calls in test_wayland_surface_main plus
// compositor_bind / bind_shell / bind_output.
func (c *Compositor) registerGlobals() {
	c.server.AddGlobal("wl_compositor", 1, func(client *wire.Client, id wire.ObjectID, version uint32) {
		res, err := client.NewResource(id, "wl_compositor")
		if err != nil {
			log.Printf("compositor: bind wl_compositor: %v", err)
			return
		}
		res.SetRequests(
			func(ar *wire.ArgReader) error {
				surfID, err := ar.NewID()
				if err != nil {
					return err
				}
				_, err = c.createSurface(client, surfID)
				return err
			},
			func(ar *wire.ArgReader) error {
				// wl_region is out of scope (no request in this core
				// reads region contents back); the id is still consumed
				// so the client's id space stays consistent.
				_, err := ar.NewID()
				return err
			},
		)
	})
	c.server.AddGlobal("wl_shm", 1, c.bindShm)
	c.server.AddGlobal("wl_shell", 1, c.bindShell)
	c.server.AddGlobal("wl_output", 1, c.bindOutput)
}
