//go:build linux

package sdlstage

import (
	"fmt"
	"log"

	"golang.org/x/sys/unix"
)

// ClockSource drives a Stage's paint loop from a Linux timerfd, so the
// repaint clock is just another hostloop.Source alongside the wire
// protocol bridge instead of a separate goroutine, keeping the whole
// process on one dispatch thread.
type ClockSource struct {
	stage *Stage
	fd    int
	onTick func() // optional hook run after every Present, e.g. for signal checks
}

// NewClockSource arms a periodic timer at hz frames per second.
func NewClockSource(stage *Stage, hz int) (*ClockSource, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("sdlstage: timerfd_create: %w", err)
	}
	interval := unix.NsecToTimespec(int64(1_000_000_000 / hz))
	spec := &unix.ItimerSpec{Value: interval, Interval: interval}
	if err := unix.TimerfdSettime(fd, 0, spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("sdlstage: timerfd_settime: %w", err)
	}
	return &ClockSource{stage: stage, fd: fd}, nil
}

// OnTick installs a hook run once per paint, after Present.
func (c *ClockSource) OnTick(fn func()) { c.onTick = fn }

func (c *ClockSource) FD() int          { return c.fd }
func (c *ClockSource) Events() uint32   { return unix.EPOLLIN }
func (c *ClockSource) Prepare() int     { return -1 }
func (c *ClockSource) Check(e uint32) bool { return e&unix.EPOLLIN != 0 }

func (c *ClockSource) Dispatch() {
	var buf [8]byte
	if _, err := unix.Read(c.fd, buf[:]); err != nil && err != unix.EAGAIN {
		log.Printf("sdlstage: timerfd read: %v", err)
	}
	if c.stage.PumpEvents() {
		log.Printf("sdlstage: window close requested")
	}
	c.stage.Present()
	if c.onTick != nil {
		c.onTick()
	}
}

func (c *ClockSource) Close() error { return unix.Close(c.fd) }
