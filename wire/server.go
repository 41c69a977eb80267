package wire

import (
	"log"

	"github.com/wlcore/compositor/hostloop"
	"golang.org/x/sys/unix"
)

// wl_display requests.
const (
	displaySyncOpcode        = 0
	displayGetRegistryOpcode = 1
)

// wl_registry requests/events.
const (
	registryBindOpcode         = 0
	registryGlobalEventOpcode  = 0
	registryGlobalRemoveOpcode = 1
)

// wl_callback events.
const callbackDoneOpcode = 0

// Global describes one process-wide singleton advertised to every client,
// e.g. wl_compositor or wl_shm.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
	Bind      func(c *Client, id ObjectID, version uint32)
}

// Server owns the listening socket and every connected Client, and
// multiplexes all of their sockets behind one internal epoll instance so
// the whole server looks like a single pollable fd to its embedder — the
// same shape wl_display_get_fd()/wl_event_loop_dispatch() give a real
// libwayland-server embedder. See hostloop and compositor/eventloop.go.
type Server struct {
	listener *Listener
	loop     *hostloop.Loop
	clients  map[int]*Client
	globals  []Global
	nextName uint32
}

// NewServer creates the display socket named sockName and its internal
// dispatch loop, but accepts no connections until the caller starts
// pumping DispatchPending (directly, or via an outer hostloop.Loop).
func NewServer(sockName string) (*Server, error) {
	l, err := Listen(sockName)
	if err != nil {
		return nil, err
	}
	loop, err := hostloop.New()
	if err != nil {
		l.Close()
		return nil, err
	}
	s := &Server{listener: l, loop: loop, clients: make(map[int]*Client)}
	if err := loop.AddSource(&listenerSource{s: s}); err != nil {
		loop.Close()
		l.Close()
		return nil, err
	}
	return s, nil
}

// AddGlobal registers a new process-wide singleton. Existing clients do
// not learn about it retroactively (none of this core's globals are ever
// added after startup, so that gap is never exercised); future clients
// see it as soon as they call wl_display.get_registry.
func (s *Server) AddGlobal(iface string, version uint32, bindFn func(c *Client, id ObjectID, version uint32)) {
	s.nextName++
	s.globals = append(s.globals, Global{Name: s.nextName, Interface: iface, Version: version, Bind: bindFn})
}

// FD returns the server's single pollable file descriptor for embedding
// into an external host loop.
func (s *Server) FD() int { return s.loop.FD() }

// DispatchPending runs one pass of the internal loop: it accepts any
// pending connections and processes any pending client requests, then
// returns. timeoutMs follows hostloop.Loop.RunOnce.
func (s *Server) DispatchPending(timeoutMs int) error {
	return s.loop.RunOnce(timeoutMs)
}

// Close tears down every client connection and the listening socket.
func (s *Server) Close() error {
	for _, c := range s.clients {
		c.Disconnect()
	}
	err := s.listener.Close()
	s.loop.Close()
	return err
}

func (s *Server) acceptOne() {
	conn, err := s.listener.Accept()
	if err != nil {
		if err == unix.EAGAIN {
			return
		}
		log.Printf("wire: accept: %v", err)
		return
	}
	c := newClient(conn)
	c.server = s
	s.clients[conn.fd] = c

	disp, _ := c.NewResource(DisplayObjectID, "wl_display")
	disp.SetRequests(
		func(ar *ArgReader) error { return s.handleDisplaySync(c, ar) },
		func(ar *ArgReader) error { return s.handleDisplayGetRegistry(c, ar) },
	)

	if err := s.loop.AddSource(&clientSource{s: s, c: c}); err != nil {
		log.Printf("wire: register client: %v", err)
		c.Disconnect()
		delete(s.clients, conn.fd)
	}
}

func (s *Server) disconnect(c *Client) {
	_ = s.loop.RemoveSource(c.conn.fd)
	delete(s.clients, c.conn.fd)
	c.Disconnect()
}

func (s *Server) route(c *Client, msg Message) {
	r, ok := c.Lookup(msg.Object)
	if !ok {
		log.Printf("wire: request on unknown object %d (opcode %d), disconnecting client", msg.Object, msg.Opcode)
		s.disconnect(c)
		return
	}
	if int(msg.Opcode) >= len(r.requests) || r.requests[msg.Opcode] == nil {
		log.Printf("wire: unimplemented request: %s@%d opcode %d", r.iface, r.id, msg.Opcode)
		return
	}
	ar := NewArgReader(msg.Args, msg.FDs)
	if err := r.requests[msg.Opcode](ar); err != nil {
		log.Printf("wire: request error on %s@%d opcode %d: %v", r.iface, r.id, msg.Opcode, err)
		_ = c.PostError(msg.Object, 0, err.Error())
	}
}

func (s *Server) handleDisplaySync(c *Client, ar *ArgReader) error {
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	cb, err := c.NewResource(id, "wl_callback")
	if err != nil {
		return err
	}
	// Nothing in this core defers sync past the requests already
	// processed synchronously ahead of it, so the callback fires
	// immediately rather than waiting for a real round-trip barrier.
	w := &ArgWriter{}
	w.Uint32(c.NextSerial())
	if err := cb.PostEvent(callbackDoneOpcode, w); err != nil {
		return err
	}
	cb.Destroy()
	return nil
}

func (s *Server) handleDisplayGetRegistry(c *Client, ar *ArgReader) error {
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	reg, err := c.NewResource(id, "wl_registry")
	if err != nil {
		return err
	}
	reg.SetRequests(func(ar *ArgReader) error { return s.handleRegistryBind(c, reg, ar) })

	for _, g := range s.globals {
		w := &ArgWriter{}
		w.Uint32(g.Name)
		w.String(g.Interface)
		w.Uint32(g.Version)
		if err := reg.PostEvent(registryGlobalEventOpcode, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleRegistryBind(c *Client, reg *Resource, ar *ArgReader) error {
	name, err := ar.Uint32()
	if err != nil {
		return err
	}
	iface, err := ar.String()
	if err != nil {
		return err
	}
	version, err := ar.Uint32()
	if err != nil {
		return err
	}
	id, err := ar.NewID()
	if err != nil {
		return err
	}
	for _, g := range s.globals {
		if g.Name == name && g.Interface == iface {
			g.Bind(c, id, version)
			return nil
		}
	}
	return errUnknownGlobal(name, iface)
}

type listenerSource struct{ s *Server }

func (ls *listenerSource) FD() int          { return ls.s.listener.fd }
func (ls *listenerSource) Events() uint32   { return unix.EPOLLIN }
func (ls *listenerSource) Prepare() int     { return -1 }
func (ls *listenerSource) Check(e uint32) bool { return e&unix.EPOLLIN != 0 }
func (ls *listenerSource) Dispatch()        { ls.s.acceptOne() }

type clientSource struct {
	s *Server
	c *Client
}

func (cs *clientSource) FD() int        { return cs.c.conn.fd }
func (cs *clientSource) Events() uint32 { return unix.EPOLLIN }
func (cs *clientSource) Prepare() int   { return -1 }
func (cs *clientSource) Check(e uint32) bool { return e != 0 }
func (cs *clientSource) Dispatch() {
	for {
		msg, err := cs.c.conn.ReadMessage()
		if err != nil {
			if err == ErrWouldBlock {
				return
			}
			cs.s.disconnect(cs.c)
			return
		}
		cs.s.route(cs.c, msg)
	}
}
