package wire

import "errors"

// ObjectID identifies a protocol object within one client's id space.
type ObjectID uint32

// DisplayObjectID is always bound to the wl_display singleton.
const DisplayObjectID ObjectID = 1

// RequestHandler decodes and executes one incoming request, reading its
// arguments from r in declaration order.
type RequestHandler func(r *ArgReader) error

// DestroyHook runs exactly once when a resource's id is retired, either
// by an explicit destroy request or because the owning client
// disconnected. Hooks must tolerate running in any order relative to a
// resource's peers.
type DestroyHook func()

// Resource is one object bound into a Client's id space: an interface
// name, a per-opcode request dispatch table, and a destroy hook. It is
// the Go stand-in for libwayland-server's struct wl_resource. The
// compositor's Buffer and Surface records each hold one as their "opaque
// protocol identity", and its frame-callback queue holds the wl_callback
// resources directly — the pointer itself is stable and comparable, so it
// doubles as a registry key without any separate id-allocation scheme.
type Resource struct {
	id        ObjectID
	iface     string
	client    *Client
	requests  []RequestHandler
	onDestroy DestroyHook
}

func (r *Resource) ID() ObjectID      { return r.id }
func (r *Resource) Interface() string { return r.iface }
func (r *Resource) Client() *Client   { return r.client }

// SetRequests installs the request dispatch table, indexed by opcode.
func (r *Resource) SetRequests(handlers ...RequestHandler) { r.requests = handlers }

// OnDestroy installs the hook run when this resource is retired.
func (r *Resource) OnDestroy(hook DestroyHook) { r.onDestroy = hook }

// PostEvent sends one outbound event on this resource.
func (r *Resource) PostEvent(opcode uint16, args *ArgWriter) error {
	if r.client == nil {
		return errors.New("wire: resource has no attached client")
	}
	return r.client.conn.WriteMessage(Message{
		Header: Header{Object: r.id, Opcode: opcode},
		Args:   args.Bytes(),
		FDs:    args.FDs(),
	})
}

// Destroy retires the resource: it is removed from its client's table
// (if it has one) and its destroy hook, if any, fires.
func (r *Resource) Destroy() {
	if r.client != nil {
		r.client.retire(r)
		return
	}
	if r.onDestroy != nil {
		r.onDestroy()
	}
}

// NewDetachedResource creates a Resource with no attached Client. It
// exists for unit tests that exercise compositor-domain logic (buffer and
// surface registries) without a real socket: PostEvent on a detached
// resource fails, but its pointer identity still works as a registry key
// and its destroy hook still fires on Destroy.
func NewDetachedResource(id ObjectID, iface string) *Resource {
	return &Resource{id: id, iface: iface}
}
