package wire

import "golang.org/x/sys/unix"

// NewTestClient creates a connected Unix socketpair and wraps one end as
// a Client the way Server.acceptOne does for a real connection, except
// that the Client has no Server and no wl_display object is installed.
// It returns the Client and the raw peer Conn, so a test can drive
// requests through the Client's resources and read back any events
// posted on them with the same wire framing production code uses,
// without a real listening socket or $XDG_RUNTIME_DIR.
func NewTestClient() (*Client, *Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, err
	}
	c := newClient(&Conn{fd: fds[0]})
	peer := &Conn{fd: fds[1]}
	return c, peer, nil
}
