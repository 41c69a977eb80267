// Command wl-snapshot shrinks a raw wl_shm buffer dump into a PNG
// thumbnail, for attaching to a bug report without shipping a full-size
// capture.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/wlcore/compositor/format"
	"github.com/wlcore/compositor/scene"
)

func main() {
	in := flag.String("in", "", "path to a raw wl_shm buffer dump (tightly packed, no stride padding)")
	out := flag.String("out", "snapshot.png", "output PNG path")
	width := flag.Int("width", 0, "buffer width in pixels")
	height := flag.Int("height", 0, "buffer height in pixels")
	formatName := flag.String("format", "argb8888", "pixel format of the dump: argb8888 or xrgb8888")
	size := flag.Int("size", 128, "thumbnail's longest side in pixels")
	flag.Parse()

	if *in == "" || *width <= 0 || *height <= 0 {
		log.Fatalf("wl-snapshot: -in, -width and -height are required")
	}

	var pf scene.PixelFormat
	switch *formatName {
	case "argb8888":
		pf = scene.FormatARGB8888
	case "xrgb8888":
		pf = scene.FormatXRGB8888
	default:
		log.Fatalf("wl-snapshot: unknown -format %q (want argb8888 or xrgb8888)", *formatName)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("wl-snapshot: read %s: %v", *in, err)
	}
	want := *width * *height * 4
	if len(raw) < want {
		log.Fatalf("wl-snapshot: %s is %d bytes, want at least %d for a %dx%d buffer", *in, len(raw), want, *width, *height)
	}

	rgba := format.ToRGBA(raw[:want], *width, *height, pf)
	img := &image.RGBA{Pix: rgba, Stride: *width * 4, Rect: image.Rect(0, 0, *width, *height)}
	thumb := format.Thumbnail(img, *size)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("wl-snapshot: create %s: %v", *out, err)
	}
	defer f.Close()
	if err := png.Encode(f, thumb); err != nil {
		log.Fatalf("wl-snapshot: encode png: %v", err)
	}
	log.Printf("wl-snapshot: wrote %s (%dx%d -> thumbnail)", *out, *width, *height)
}
