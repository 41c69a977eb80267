package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortRead indicates a message's body ended before an argument that
// its opcode's signature calls for could be decoded — a client protocol
// violation.
var ErrShortRead = errors.New("wire: short read decoding argument")

func align4(n int) int { return (n + 3) &^ 3 }

// ArgReader decodes one message's argument list in declaration order,
// mirroring the fixed per-opcode signatures a real Wayland protocol XML
// would specify (this core hardcodes those signatures at the call site
// instead of generating them from XML).
type ArgReader struct {
	buf []byte
	fds []int
	off int
}

// NewArgReader wraps a message's raw argument bytes and the fds that
// arrived with it. fds are consumed strictly in the order FD() is called,
// which must match the order fd-typed arguments appear in the opcode's
// signature.
func NewArgReader(buf []byte, fds []int) *ArgReader {
	return &ArgReader{buf: buf, fds: fds}
}

func (r *ArgReader) Uint32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *ArgReader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Fixed decodes a 24.8 signed fixed-point number.
func (r *ArgReader) Fixed() (float64, error) {
	v, err := r.Int32()
	if err != nil {
		return 0, err
	}
	return float64(v) / 256, nil
}

func (r *ArgReader) String() (string, error) {
	n, err := r.Uint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	padded := align4(int(n))
	if r.off+padded > len(r.buf) {
		return "", ErrShortRead
	}
	s := string(r.buf[r.off : r.off+int(n)-1]) // drop the trailing NUL
	r.off += padded
	return s, nil
}

func (r *ArgReader) Array() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	padded := align4(int(n))
	if r.off+padded > len(r.buf) {
		return nil, ErrShortRead
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += padded
	return out, nil
}

func (r *ArgReader) NewID() (ObjectID, error) {
	v, err := r.Uint32()
	return ObjectID(v), err
}

func (r *ArgReader) ObjectID() (ObjectID, error) {
	v, err := r.Uint32()
	return ObjectID(v), err
}

// FD pops the next file descriptor that arrived alongside this message.
func (r *ArgReader) FD() (int, error) {
	if len(r.fds) == 0 {
		return -1, fmt.Errorf("wire: expected a file descriptor argument, none arrived")
	}
	fd := r.fds[0]
	r.fds = r.fds[1:]
	return fd, nil
}

// ArgWriter encodes the argument list of one outbound event.
type ArgWriter struct {
	buf []byte
	fds []int
}

func (w *ArgWriter) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ArgWriter) Int32(v int32) { w.Uint32(uint32(v)) }

func (w *ArgWriter) Fixed(v float64) { w.Int32(int32(v * 256)) }

func (w *ArgWriter) String(s string) {
	w.Uint32(uint32(len(s) + 1))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *ArgWriter) Array(data []byte) {
	w.Uint32(uint32(len(data)))
	w.buf = append(w.buf, data...)
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *ArgWriter) NewID(id ObjectID)    { w.Uint32(uint32(id)) }
func (w *ArgWriter) ObjectID(id ObjectID) { w.Uint32(uint32(id)) }
func (w *ArgWriter) FD(fd int)            { w.fds = append(w.fds, fd) }

func (w *ArgWriter) Bytes() []byte { return w.buf }
func (w *ArgWriter) FDs() []int    { return w.fds }
