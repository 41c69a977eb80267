// Package scene declares the scene-compositor collaborator contract: a
// Stage hosting one Actor per live Surface, and the BufferSource view an
// Actor reads pixels from. compositor never imports a concrete
// implementation, only these interfaces; scene/sdlstage and
// scene/headless each implement them independently.
package scene

// PixelFormat mirrors the subset of wl_shm.format this core negotiates.
type PixelFormat uint32

const (
	FormatARGB8888 PixelFormat = 0
	FormatXRGB8888 PixelFormat = 1
)

// BufferSource is a pixel buffer's content as seen by the scene layer:
// enough to read back whatever rectangle was just reported dirty. The
// compositor implements this over a buffer's slice of an mmapped shm
// pool; it is read when an actor binds the buffer (the whole buffer) and
// when a damage event names a rectangle (just that rectangle).
type BufferSource interface {
	// Size reports the buffer's dimensions and row stride, in bytes.
	Size() (width, height, stride int)
	Format() PixelFormat
	// ReadRegion returns a tightly packed (stride == width*4) copy of the
	// rectangle [x,y,x+w,y+h) in the buffer's native Format() — the wire
	// byte order, not yet converted for display. Callers needing RGBA
	// bytes for a renderer use format.ToRGBA on the result.
	ReadRegion(x, y, w, h int) []byte
}

// Actor is a scene-graph node hosting one Surface's buffer contents.
type Actor interface {
	// AttachBuffer binds src for display on the next paint.
	AttachBuffer(src BufferSource) error
	// DamageBuffer marks a sub-rectangle of the currently attached
	// buffer dirty, re-sampling it from src.
	DamageBuffer(src BufferSource, x, y, w, h int)
	// Destroy tears the actor down and unlinks it from its Stage.
	Destroy()
}

// Stage is the rectangular paint surface actors are placed onto.
type Stage interface {
	// SetSize sets the stage's logical pixel size.
	SetSize(width, height int)
	// NewActor creates an actor bound to owner (a *compositor.Surface in
	// practice; typed any here so this package never imports compositor),
	// attached to the stage immediately.
	NewActor(owner any) Actor
	// ConnectPaintFinished registers fn to run once per completed paint.
	// Only one handler is ever installed, at startup.
	ConnectPaintFinished(fn func())
}
