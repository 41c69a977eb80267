package format

// Region is a read-only view into a larger stride-addressed pixel
// buffer, producing a tightly packed copy of one rectangle. Adapted from
// subimage.go's SubImage (an image.Image wrapper offsetting a draw.Image
// by a rectangle): the compositor core never decodes shm contents into
// an image.Image, so this crops raw bytes by stride and pixel depth
// instead of going through image.Image's Color interface.
type Region struct {
	Src           []byte
	Stride        int
	BytesPerPixel int
}

// Crop returns a tightly packed copy of the rectangle [x,y,x+w,y+h).
func (r Region) Crop(x, y, w, h int) []byte {
	out := make([]byte, w*h*r.BytesPerPixel)
	rowBytes := w * r.BytesPerPixel
	for row := 0; row < h; row++ {
		srcOff := (y+row)*r.Stride + x*r.BytesPerPixel
		dstOff := row * rowBytes
		copy(out[dstOff:dstOff+rowBytes], r.Src[srcOff:srcOff+rowBytes])
	}
	return out
}
