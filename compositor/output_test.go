package compositor

import (
	"testing"

	"github.com/wlcore/compositor/wire"
)

func TestBindOutputPostsGeometryThenOneEventPerMode(t *testing.T) {
	c := &Compositor{output: NewOutput(10, 20, 200, 150, []Mode{
		{Width: 800, Height: 600, Refresh: 60000, Current: true},
		{Width: 640, Height: 480, Refresh: 60000, Current: false},
	})}
	client, peer, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	defer peer.Close()

	c.bindOutput(client, 2, 1)

	msg, err := peer.ReadMessage()
	if err != nil {
		t.Fatalf("read geometry event: %v", err)
	}
	if msg.Opcode != outputGeometryEventOpcode {
		t.Fatalf("first event opcode = %d, want geometry (%d)", msg.Opcode, outputGeometryEventOpcode)
	}
	ar := wire.NewArgReader(msg.Args, nil)
	x, _ := ar.Int32()
	y, _ := ar.Int32()
	widthMM, _ := ar.Int32()
	heightMM, _ := ar.Int32()
	if x != 10 || y != 20 || widthMM != 200 || heightMM != 150 {
		t.Fatalf("geometry = (%d,%d,%d,%d), want (10,20,200,150)", x, y, widthMM, heightMM)
	}

	for i, want := range []Mode{
		{Width: 800, Height: 600, Refresh: 60000, Current: true},
		{Width: 640, Height: 480, Refresh: 60000, Current: false},
	} {
		msg, err := peer.ReadMessage()
		if err != nil {
			t.Fatalf("read mode event %d: %v", i, err)
		}
		if msg.Opcode != outputModeEventOpcode {
			t.Fatalf("mode event %d opcode = %d, want %d", i, msg.Opcode, outputModeEventOpcode)
		}
		ar := wire.NewArgReader(msg.Args, nil)
		flags, _ := ar.Uint32()
		width, _ := ar.Int32()
		height, _ := ar.Int32()
		refresh, _ := ar.Int32()
		gotCurrent := flags&modeFlagCurrent != 0
		if gotCurrent != want.Current || int(width) != want.Width || int(height) != want.Height || int(refresh) != want.Refresh {
			t.Fatalf("mode %d = (%dx%d@%d current=%v), want (%dx%d@%d current=%v)",
				i, width, height, refresh, gotCurrent, want.Width, want.Height, want.Refresh, want.Current)
		}
	}
}
