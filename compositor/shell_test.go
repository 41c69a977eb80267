package compositor

import (
	"testing"

	"github.com/wlcore/compositor/wire"
)

// shellArgs builds n uint32-sized object_id/int32/uint32 arguments; every
// wl_shell request this core implements happens to be all fixed-width
// fields, so one helper covers all five.
func shellArgs(vs ...uint32) []byte {
	w := &wire.ArgWriter{}
	for _, v := range vs {
		w.Uint32(v)
	}
	return w.Bytes()
}

func TestBindShellBindsWlShellResource(t *testing.T) {
	c := &Compositor{}
	client, peer, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	defer peer.Close()

	c.bindShell(client, 2, 1)

	res, ok := client.Lookup(2)
	if !ok {
		t.Fatalf("wl_shell resource not bound")
	}
	if res.Interface() != "wl_shell" {
		t.Fatalf("interface = %q, want wl_shell", res.Interface())
	}
}

func TestShellMoveParsesSurfaceInputDeviceTime(t *testing.T) {
	if err := shellMove(wire.NewArgReader(shellArgs(100, 200, 42), nil)); err != nil {
		t.Fatalf("shellMove: %v", err)
	}
}

func TestShellResizeParsesSurfaceInputDeviceTimeEdges(t *testing.T) {
	if err := shellResize(wire.NewArgReader(shellArgs(100, 200, 42, 4), nil)); err != nil {
		t.Fatalf("shellResize: %v", err)
	}
}

func TestShellSetToplevelParsesSurface(t *testing.T) {
	if err := shellSetToplevel(wire.NewArgReader(shellArgs(100), nil)); err != nil {
		t.Fatalf("shellSetToplevel: %v", err)
	}
}

func TestShellSetTransientParsesSurfaceParentXYFlags(t *testing.T) {
	if err := shellSetTransient(wire.NewArgReader(shellArgs(100, 101, 7, 9, 1), nil)); err != nil {
		t.Fatalf("shellSetTransient: %v", err)
	}
}

func TestShellSetFullscreenParsesSurface(t *testing.T) {
	if err := shellSetFullscreen(wire.NewArgReader(shellArgs(100), nil)); err != nil {
		t.Fatalf("shellSetFullscreen: %v", err)
	}
}

func TestShellRequestsRejectTruncatedArguments(t *testing.T) {
	if err := shellSetTransient(wire.NewArgReader(shellArgs(100, 101), nil)); err == nil {
		t.Fatalf("shellSetTransient with truncated args: want error, got nil")
	}
}
