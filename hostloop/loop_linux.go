//go:build linux

package hostloop

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Loop is an epoll-backed cooperative main loop. It is deliberately
// small: a map of registered Sources and one epoll instance, iterated in
// prepare/poll/check/dispatch passes exactly like a single GLib main
// context iteration.
type Loop struct {
	epfd    int
	sources map[int]Source
}

// New creates an epoll instance. Loop.FD lets a Loop be nested inside
// another Loop's Source, the same way wl_event_loop_get_fd lets a real
// compositor nest libwayland's loop inside its own.
func New() (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("hostloop: epoll_create1: %w", err)
	}
	return &Loop{epfd: epfd, sources: make(map[int]Source)}, nil
}

// FD returns the loop's own epoll file descriptor.
func (l *Loop) FD() int { return l.epfd }

func (l *Loop) Close() error { return unix.Close(l.epfd) }

// AddSource registers a source for the events it asked for.
func (l *Loop) AddSource(s Source) error {
	fd := s.FD()
	if _, exists := l.sources[fd]; exists {
		return fmt.Errorf("hostloop: fd %d already registered", fd)
	}
	ev := unix.EpollEvent{Events: s.Events(), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("hostloop: epoll_ctl add: %w", err)
	}
	l.sources[fd] = s
	return nil
}

// RemoveSource unregisters the source previously added for fd. It is a
// no-op if fd was never registered.
func (l *Loop) RemoveSource(fd int) error {
	if _, ok := l.sources[fd]; !ok {
		return nil
	}
	delete(l.sources, fd)
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// RunOnce runs exactly one prepare/poll/check/dispatch pass over every
// registered source, blocking at most blockMs milliseconds (-1 blocks
// indefinitely, 0 polls without blocking).
func (l *Loop) RunOnce(blockMs int) error {
	timeout := blockMs
	for _, s := range l.sources {
		if t := s.Prepare(); t >= 0 && (timeout < 0 || t < timeout) {
			timeout = t
		}
	}

	var events [32]unix.EpollEvent
	n, err := unix.EpollWait(l.epfd, events[:], timeout)
	if err != nil {
		if err != unix.EINTR {
			return fmt.Errorf("hostloop: epoll_wait: %w", err)
		}
		n = 0
	}

	fired := make(map[int]uint32, n)
	for i := 0; i < n; i++ {
		fired[int(events[i].Fd)] = events[i].Events
	}

	for fd, s := range l.sources {
		if s.Check(fired[fd]) {
			s.Dispatch()
		}
	}
	return nil
}

// Run drives RunOnce forever until stop is closed.
func (l *Loop) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		if err := l.RunOnce(-1); err != nil {
			return err
		}
	}
}
