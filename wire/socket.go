package wire

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Listener accepts client connections on the display's Unix socket,
// created under $XDG_RUNTIME_DIR the way every Wayland compositor does.
type Listener struct {
	fd   int
	path string
}

// Listen creates and binds the display socket named sockName
// (conventionally "wayland-0") under $XDG_RUNTIME_DIR.
func Listen(sockName string) (*Listener, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, fmt.Errorf("wire: XDG_RUNTIME_DIR is not set")
	}
	path := filepath.Join(dir, sockName)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("wire: socket: %w", err)
	}
	// A socket left behind by a crashed prior run must not block bind.
	_ = unix.Unlink(path)
	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wire: bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, 16); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wire: listen %s: %w", path, err)
	}
	return &Listener{fd: fd, path: path}, nil
}

// FD returns the listening socket's file descriptor.
func (l *Listener) FD() int { return l.fd }

// Accept accepts one pending connection without blocking. It returns
// unix.EAGAIN unwrapped when none is pending.
func (l *Listener) Accept() (*Conn, error) {
	nfd, _, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Conn{fd: nfd}, nil
}

func (l *Listener) Close() error {
	err := unix.Close(l.fd)
	_ = unix.Unlink(l.path)
	return err
}
