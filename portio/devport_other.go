//go:build !linux

package portio

// DevPort is unavailable outside Linux.
type DevPort struct{}

// Open always fails with ErrUnsupported.
func Open(path string) (*DevPort, error) { return nil, ErrUnsupported }

func (d *DevPort) In(port uint16) byte         { panic(ErrUnsupported) }
func (d *DevPort) Out(port uint16, value byte) { panic(ErrUnsupported) }
func (d *DevPort) Path() string                { return "" }
func (d *DevPort) Close() error                { return ErrUnsupported }
