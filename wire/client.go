package wire

import "fmt"

// displayErrorOpcode is wl_display's "error" event (opcode 0): object_id,
// error code, message.
const displayErrorOpcode = 0

// Client is one connected peer: its socket and its live object table.
type Client struct {
	conn       *Conn
	server     *Server
	objects    map[ObjectID]*Resource
	nextSerial uint32
}

func newClient(conn *Conn) *Client {
	return &Client{conn: conn, objects: make(map[ObjectID]*Resource)}
}

// NewResource allocates and registers a resource at id, bound to iface.
// It is a client protocol error for id to already be in use.
func (c *Client) NewResource(id ObjectID, iface string) (*Resource, error) {
	if _, exists := c.objects[id]; exists {
		return nil, fmt.Errorf("wire: object id %d already in use", id)
	}
	r := &Resource{id: id, iface: iface, client: c}
	c.objects[id] = r
	return r, nil
}

// Lookup finds a live resource by id.
func (c *Client) Lookup(id ObjectID) (*Resource, bool) {
	r, ok := c.objects[id]
	return r, ok
}

func (c *Client) retire(r *Resource) {
	if _, ok := c.objects[r.id]; !ok {
		return
	}
	delete(c.objects, r.id)
	if r.onDestroy != nil {
		r.onDestroy()
	}
}

// NextSerial returns a monotonically increasing per-client serial.
func (c *Client) NextSerial() uint32 {
	c.nextSerial++
	return c.nextSerial
}

// PostError reports a client protocol error on the display object. It
// does not disconnect the client.
func (c *Client) PostError(onObject ObjectID, code uint32, message string) error {
	w := &ArgWriter{}
	w.ObjectID(onObject)
	w.Uint32(code)
	w.String(message)
	return c.conn.WriteMessage(Message{
		Header: Header{Object: DisplayObjectID, Opcode: displayErrorOpcode},
		Args:   w.Bytes(),
	})
}

// Disconnect retires every live resource — in unspecified order, which
// destroy hooks must tolerate — then closes the socket.
func (c *Client) Disconnect() {
	for _, r := range c.objects {
		c.retire(r)
	}
	c.conn.Close()
}
