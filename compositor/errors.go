package compositor

import (
	"errors"
	"fmt"

	"github.com/wlcore/compositor/wire"
)

// Sentinel errors for this package's named error conditions, styled
// after the hand-written errors.New calls createTmpfile used for its
// tmpfile-creation failures.
var (
	// ErrUnknownBuffer marks a shm damage notification that names a
	// buffer the registry never saw created. It is logged and dropped,
	// never propagated to any client.
	ErrUnknownBuffer = errors.New("compositor: notification for an unregistered buffer")
)

func errUnknownObject(id wire.ObjectID) error {
	return fmt.Errorf("compositor: unknown object id %d", id)
}
