package compositor

import (
	"log"

	"github.com/wlcore/compositor/wire"
)

const (
	outputGeometryEventOpcode = 0
	outputModeEventOpcode     = 1
)

const modeFlagCurrent = 0x1

// Mode is one display mode an Output advertises.
type Mode struct {
	Width, Height int
	Refresh       int // milli-Hz
	Current       bool
}

// Output is the single physical display descriptor this core advertises.
type Output struct {
	X, Y              int
	WidthMM, HeightMM int
	Modes             []Mode
}

// NewOutput builds the single Output this core advertises. It reproduces
// a real historical bug rather than fixing it — see Compositor.New,
// which sizes the stage from WidthMM/HeightMM instead of a pixel size,
// exactly as tws_compositor_create_output did (kept bug-compatible, see
// DESIGN.md's open-question decision).
func NewOutput(x, y, widthMM, heightMM int, modes []Mode) *Output {
	return &Output{X: x, Y: y, WidthMM: widthMM, HeightMM: heightMM, Modes: modes}
}

// bindOutput advertises geometry then every mode in one synchronous
// burst with no other client's traffic interleaved — atomicity falls
// out of the single-threaded dispatch model rather than needing an
// explicit lock. Grounded on bind_output.
func (c *Compositor) bindOutput(client *wire.Client, id wire.ObjectID, version uint32) {
	res, err := client.NewResource(id, "wl_output")
	if err != nil {
		log.Printf("compositor: bind wl_output: %v", err)
		return
	}
	o := c.output

	g := &wire.ArgWriter{}
	g.Int32(int32(o.X))
	g.Int32(int32(o.Y))
	g.Int32(int32(o.WidthMM))
	g.Int32(int32(o.HeightMM))
	g.Int32(0) // subpixel: unknown
	g.String("unknown")
	g.String("unknown")
	g.Int32(0) // transform: normal
	_ = res.PostEvent(outputGeometryEventOpcode, g)

	for _, m := range o.Modes {
		flags := uint32(0)
		if m.Current {
			flags |= modeFlagCurrent
		}
		w := &wire.ArgWriter{}
		w.Uint32(flags)
		w.Int32(int32(m.Width))
		w.Int32(int32(m.Height))
		w.Int32(int32(m.Refresh))
		_ = res.PostEvent(outputModeEventOpcode, w)
	}
}
