package wire

import "fmt"

func errUnknownGlobal(name uint32, iface string) error {
	return fmt.Errorf("wire: no global named %d (%s)", name, iface)
}
