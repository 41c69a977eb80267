package wire

import "encoding/binary"

const headerSize = 8

// maxMessageSize bounds a single message's declared size; it exists only
// to reject obviously corrupt headers before allocating a buffer for them.
const maxMessageSize = 4096

// Header is the 8-byte prefix of every wire message: the id of the object
// the message targets, followed by a 32-bit word packing the opcode in the
// low 16 bits and the message's total size (header included) in the high
// 16 bits.
type Header struct {
	Object ObjectID
	Opcode uint16
	Size   uint16
}

func decodeHeader(b []byte) Header {
	obj := binary.LittleEndian.Uint32(b[0:4])
	word := binary.LittleEndian.Uint32(b[4:8])
	return Header{
		Object: ObjectID(obj),
		Opcode: uint16(word),
		Size:   uint16(word >> 16),
	}
}

func encodeHeader(h Header, b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(h.Object))
	binary.LittleEndian.PutUint32(b[4:8], uint32(h.Opcode)|uint32(h.Size)<<16)
}

// Message is one fully-read wire message: a header, its raw argument bytes
// (decoded on demand with an ArgReader) and any file descriptors that
// arrived as ancillary data alongside it.
type Message struct {
	Header
	Args []byte
	FDs  []int
}
