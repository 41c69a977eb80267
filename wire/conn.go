package wire

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by ReadMessage when no complete message is
// currently buffered; the caller should wait for the next readiness
// notification from the event loop rather than treat it as an error.
var ErrWouldBlock = errors.New("wire: would block")

var errClientGone = errors.New("wire: client closed the connection")

const maxFDsPerRecv = 28

// Conn is one client's framed connection: a non-blocking stream socket
// plus SCM_RIGHTS file-descriptor passing. Bytes and fds are buffered
// independently and drained in arrival order, the same scheme
// libwayland's own connection.c uses, because a single recvmsg(2) call
// can straddle more than one sender-side write.
type Conn struct {
	fd   int
	rbuf []byte
	rfds []int
}

// fill reads whatever is currently available into the read buffer. It
// returns ErrWouldBlock if nothing is available yet.
func (c *Conn) fill() error {
	var buf [4096]byte
	oob := make([]byte, unix.CmsgSpace(maxFDsPerRecv*4))

	n, oobn, _, _, err := unix.Recvmsg(c.fd, buf[:], oob[:], 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return ErrWouldBlock
		}
		return err
	}
	if n == 0 {
		return errClientGone
	}
	c.rbuf = append(c.rbuf, buf[:n]...)
	if oobn > 0 {
		cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
		if err == nil {
			for _, cmsg := range cmsgs {
				fds, err := unix.ParseUnixRights(&cmsg)
				if err == nil {
					c.rfds = append(c.rfds, fds...)
				}
			}
		}
	}
	return nil
}

// ReadMessage reads exactly one wire message. The socket is non-blocking:
// if the peer hasn't sent a complete message yet, ReadMessage returns
// ErrWouldBlock and must be retried once the event loop reports the fd
// readable again.
func (c *Conn) ReadMessage() (Message, error) {
	for len(c.rbuf) < headerSize {
		if err := c.fill(); err != nil {
			return Message{}, err
		}
	}
	h := decodeHeader(c.rbuf)
	if int(h.Size) < headerSize || int(h.Size) > maxMessageSize {
		return Message{}, fmt.Errorf("wire: invalid message size %d from object %d", h.Size, h.Object)
	}
	for len(c.rbuf) < int(h.Size) {
		if err := c.fill(); err != nil {
			return Message{}, err
		}
	}

	args := make([]byte, int(h.Size)-headerSize)
	copy(args, c.rbuf[headerSize:h.Size])
	c.rbuf = c.rbuf[h.Size:]

	msg := Message{Header: h, Args: args}
	// fd-bearing requests carry exactly one fd in this core (wl_shm_pool's
	// create_pool); pull it off the queue now so later messages see the
	// fds that belong to them instead.
	if len(c.rfds) > 0 {
		msg.FDs = c.rfds[:1:1]
		c.rfds = c.rfds[1:]
	}
	return msg, nil
}

// WriteMessage sends one outbound event, retrying a bounded number of
// times on a full send buffer. Events this core emits are all small
// (geometry/mode/done), so EAGAIN here is not expected in practice.
func (c *Conn) WriteMessage(m Message) error {
	buf := make([]byte, headerSize+len(m.Args))
	h := m.Header
	h.Size = uint16(len(buf))
	encodeHeader(h, buf)
	copy(buf[headerSize:], m.Args)

	var oob []byte
	if len(m.FDs) > 0 {
		oob = unix.UnixRights(m.FDs...)
	}

	for attempt := 0; attempt < 1000; attempt++ {
		n, err := unix.SendmsgN(c.fd, buf, oob, nil, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				continue
			}
			return err
		}
		if n < len(buf) {
			buf = buf[n:]
			oob = nil
			continue
		}
		return nil
	}
	return fmt.Errorf("wire: send buffer stayed full")
}

func (c *Conn) Close() error { return unix.Close(c.fd) }
