package compositor

import (
	"github.com/wlcore/compositor/hostloop"
	"github.com/wlcore/compositor/scene"
	"github.com/wlcore/compositor/wire"
)

// Config configures a Compositor at startup.
type Config struct {
	// SocketName is the display socket's name under $XDG_RUNTIME_DIR,
	// e.g. "wayland-0". Defaults to "wayland-0" if empty.
	SocketName string

	OutputX, OutputY               int
	OutputWidthMM, OutputHeightMM  int
	Modes                          []Mode
}

// Compositor is the single process-wide owner of the Surface list, the
// buffer registry, the frame-callback queue, and the one Output this
// core advertises.
type Compositor struct {
	server *wire.Server
	stage  scene.Stage

	surfaces []*Surface
	buffers  *BufferRegistry
	frames   *FrameQueue
	output   *Output
}

// New creates the display socket, the single Output, and registers every
// global. It does not accept connections until its EventLoopSource is
// driven by a hostloop.Loop.
func New(cfg Config, stage scene.Stage) (*Compositor, error) {
	sockName := cfg.SocketName
	if sockName == "" {
		sockName = "wayland-0"
	}
	server, err := wire.NewServer(sockName)
	if err != nil {
		return nil, err
	}

	output := NewOutput(cfg.OutputX, cfg.OutputY, cfg.OutputWidthMM, cfg.OutputHeightMM, cfg.Modes)
	stage.SetSize(output.WidthMM, output.HeightMM)

	c := &Compositor{
		server:  server,
		stage:   stage,
		buffers: newBufferRegistry(),
		frames:  &FrameQueue{},
		output:  output,
	}
	stage.ConnectPaintFinished(c.frames.drain)
	c.registerGlobals()
	return c, nil
}

// EventLoopSource returns the hostloop.Source that bridges this
// Compositor's wire protocol traffic into an external host loop,
// reduced to the single pollable fd an embedder needs.
func (c *Compositor) EventLoopSource() hostloop.Source { return &eventLoopSource{c: c} }

// Output returns the single Output this core advertises.
func (c *Compositor) Output() *Output { return c.output }

// Close disconnects every client and removes the display socket.
func (c *Compositor) Close() error { return c.server.Close() }
