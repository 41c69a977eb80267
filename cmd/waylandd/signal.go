package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// signalSource turns Go's channel-based signal delivery into a pollable
// fd via the classic self-pipe trick, so SIGINT/SIGTERM can stop the
// cooperative host loop without a second goroutine doing anything but
// forwarding one byte.
type signalSource struct {
	r, w *os.File
	stop chan struct{}
}

func newSignalSource(stop chan struct{}, sigs ...os.Signal) (*signalSource, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		<-ch
		w.Write([]byte{0})
	}()
	return &signalSource{r: r, w: w, stop: stop}, nil
}

func (s *signalSource) FD() int        { return int(s.r.Fd()) }
func (s *signalSource) Events() uint32 { return unix.EPOLLIN }
func (s *signalSource) Prepare() int   { return -1 }
func (s *signalSource) Check(events uint32) bool {
	return events&unix.EPOLLIN != 0
}

func (s *signalSource) Dispatch() {
	var b [1]byte
	s.r.Read(b[:])
	close(s.stop)
}

func (s *signalSource) Close() error {
	s.w.Close()
	return s.r.Close()
}
