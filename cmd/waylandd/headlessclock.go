package main

import (
	"fmt"
	"log"

	"golang.org/x/sys/unix"

	"github.com/wlcore/compositor/scene/headless"
)

// headlessClock drives headless.Stage's paint-finished signal from a
// timerfd the same way sdlstage.ClockSource drives a real window,
// so -backend=headless still makes frame-callback progress without a
// renderer.
type headlessClock struct {
	stage *headless.Stage
	fd    int
}

func newHeadlessClock(stage *headless.Stage, hz int) (*headlessClock, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("waylandd: timerfd_create: %w", err)
	}
	interval := unix.NsecToTimespec(int64(1_000_000_000 / hz))
	spec := &unix.ItimerSpec{Value: interval, Interval: interval}
	if err := unix.TimerfdSettime(fd, 0, spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("waylandd: timerfd_settime: %w", err)
	}
	return &headlessClock{stage: stage, fd: fd}, nil
}

func (c *headlessClock) FD() int          { return c.fd }
func (c *headlessClock) Events() uint32   { return unix.EPOLLIN }
func (c *headlessClock) Prepare() int     { return -1 }
func (c *headlessClock) Check(e uint32) bool {
	return e&unix.EPOLLIN != 0
}

func (c *headlessClock) Dispatch() {
	var buf [8]byte
	if _, err := unix.Read(c.fd, buf[:]); err != nil && err != unix.EAGAIN {
		log.Printf("waylandd: timerfd read: %v", err)
	}
	c.stage.FinishPaint()
}

func (c *headlessClock) Close() error { return unix.Close(c.fd) }
