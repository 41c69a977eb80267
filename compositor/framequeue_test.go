package compositor

import (
	"testing"

	"github.com/wlcore/compositor/wire"
)

func TestFrameQueueDrainDestroysEachCallbackAndEmptiesQueue(t *testing.T) {
	q := &FrameQueue{}
	destroyed := 0

	cb1 := wire.NewDetachedResource(1, "wl_callback")
	cb1.OnDestroy(func() { destroyed++ })
	cb2 := wire.NewDetachedResource(2, "wl_callback")
	cb2.OnDestroy(func() { destroyed++ })

	q.enqueue(cb1)
	q.enqueue(cb2)
	q.drain()

	if destroyed != 2 {
		t.Fatalf("destroyed = %d, want 2", destroyed)
	}
	if len(q.pending) != 0 {
		t.Fatalf("queue still has %d pending entries after drain", len(q.pending))
	}
}

// TestFrameQueueDrainPostsDoneInOrderWithSharedTimestamp exercises
// property 5: N frame requests produce N done events in issuance order,
// each carrying the same timestamp, read back over a real wire
// connection.
func TestFrameQueueDrainPostsDoneInOrderWithSharedTimestamp(t *testing.T) {
	client, peer, err := wire.NewTestClient()
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}

	q := &FrameQueue{}
	var ids []wire.ObjectID
	for _, id := range []wire.ObjectID{10, 11, 12} {
		cb, err := client.NewResource(id, "wl_callback")
		if err != nil {
			t.Fatalf("NewResource(%d): %v", id, err)
		}
		q.enqueue(cb)
		ids = append(ids, id)
	}

	q.drain()

	var timestamps []uint32
	for range ids {
		msg, err := peer.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		wantID := ids[len(timestamps)]
		if msg.Object != wantID {
			t.Fatalf("done event %d arrived for object %d, want %d (issuance order)", len(timestamps), msg.Object, wantID)
		}
		if msg.Opcode != callbackDoneEventOpcode {
			t.Fatalf("opcode = %d, want %d", msg.Opcode, callbackDoneEventOpcode)
		}
		ar := wire.NewArgReader(msg.Args, msg.FDs)
		ts, err := ar.Uint32()
		if err != nil {
			t.Fatalf("decode timestamp: %v", err)
		}
		timestamps = append(timestamps, ts)
	}

	for i, ts := range timestamps {
		if ts != timestamps[0] {
			t.Fatalf("timestamp %d = %d, want %d (all done events share one drain-instant timestamp)", i, ts, timestamps[0])
		}
	}
	if len(q.pending) != 0 {
		t.Fatalf("queue still has %d pending entries after drain", len(q.pending))
	}
}

func TestFrameQueueDrainOnEmptyQueueIsNoop(t *testing.T) {
	q := &FrameQueue{}
	q.drain()
	if len(q.pending) != 0 {
		t.Fatalf("drain on empty queue left %d pending entries", len(q.pending))
	}
}

func TestFrameQueueEnqueueDuringDrainIsNotLost(t *testing.T) {
	q := &FrameQueue{}
	var secondEnqueued bool
	cb1 := wire.NewDetachedResource(1, "wl_callback")
	cb2 := wire.NewDetachedResource(2, "wl_callback")
	cb1.OnDestroy(func() {
		q.enqueue(cb2)
		secondEnqueued = true
	})

	q.enqueue(cb1)
	q.drain()

	if !secondEnqueued {
		t.Fatalf("callback destroyed hook never ran")
	}
	if len(q.pending) != 1 || q.pending[0] != cb2 {
		t.Fatalf("pending = %v, want [cb2] (enqueues during drain go to the next frame)", q.pending)
	}
}
