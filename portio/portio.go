// Package portio provides ns16550.Bus implementations for a hosted machine:
// /dev/port on Linux, and a decorator that logs every access.
package portio

import (
	"errors"
	"log"

	"github.com/jangala-dev/tinygo-ns16550/ns16550"
)

// DefaultPath is the Linux character device exposing the I/O port space.
const DefaultPath = "/dev/port"

// ErrUnsupported is returned by Open on platforms without /dev/port.
var ErrUnsupported = errors.New("portio: port I/O not supported on this platform")

// Trace wraps a Bus and logs each access through Logger (log.Default() when
// nil).
type Trace struct {
	Bus    ns16550.Bus
	Logger *log.Logger
}

func (t Trace) logger() *log.Logger {
	if t.Logger == nil {
		return log.Default()
	}
	return t.Logger
}

func (t Trace) In(port uint16) byte {
	v := t.Bus.In(port)
	t.logger().Printf("in  %#x -> %#02x", port, v)
	return v
}

func (t Trace) Out(port uint16, value byte) {
	t.logger().Printf("out %#x <- %#02x", port, value)
	t.Bus.Out(port, value)
}
