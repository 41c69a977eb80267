package format

import (
	"image"

	"github.com/KononK/resize"
)

// Thumbnail shrinks img to fit within size×size, the same call menu.go
// makes to scale context-menu icons
// (resize.Resize(uint(menu.ctxmenu.IconSize), uint(menu.ctxmenu.IconSize),
// img, resize.Bilinear)) — reused here by cmd/wl-snapshot to shrink a
// captured debug frame for a bug report instead of an icon file.
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = b.Dy() * size / b.Dx()
	} else if b.Dy() > b.Dx() {
		w = b.Dx() * size / b.Dy()
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}
