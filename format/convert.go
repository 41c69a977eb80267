// Package format bridges shm pixel data between the wire's byte order and
// the byte order a renderer expects, and provides a damage-region view
// and a thumbnail helper for the debug snapshot tool.
package format

import (
	"github.com/daaku/swizzle"
	"github.com/wlcore/compositor/scene"
)

// ToRGBA converts a tightly packed pixel buffer from its wl_shm wire
// format into RGBA byte order. wl_shm's argb8888/xrgb8888 formats are
// defined as native-endian 32-bit words equal to 0xAARRGGBB; on the
// little-endian hosts this core targets that puts the bytes in memory as
// B,G,R,A — exactly BGRA — so recovering RGBA order is one channel swap.
// swizzle.BGRA is its own inverse, so the same call does the conversion
// either direction.
//
// The returned slice is a fresh copy; pix is left unmodified.
func ToRGBA(pix []byte, width, height int, f scene.PixelFormat) []byte {
	out := make([]byte, len(pix))
	copy(out, pix)
	switch f {
	case scene.FormatARGB8888, scene.FormatXRGB8888:
		swizzle.BGRA(out)
	}
	if f == scene.FormatXRGB8888 {
		for i := 3; i < len(out); i += 4 {
			out[i] = 0xff
		}
	}
	return out
}
