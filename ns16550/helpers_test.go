package ns16550

import (
	"testing"

	"github.com/jangala-dev/tinygo-ns16550/sim"
)

// newTestUART returns COM1 backed by a fresh simulated register bank that
// captures transmitted bytes.
func newTestUART(opts ...sim.Option) (UART, *sim.Device) {
	dev := sim.New(nil, opts...)
	return New(COM1, dev), dev
}

// begun returns a channel that has passed Begin at 115200.
func begun(t *testing.T) (UART, *sim.Device) {
	t.Helper()
	u, dev := newTestUART()
	if err := u.Begin(115200); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return u, dev
}

// mustFault runs f and returns the *Fault it panics with. It fails the test
// if f returns normally or panics with anything else.
func mustFault(t *testing.T, f func()) (flt *Fault) {
	t.Helper()
	func() {
		defer func() {
			r := recover()
			var ok bool
			if flt, ok = r.(*Fault); !ok {
				t.Fatalf("panic value = %#v, want *Fault", r)
			}
		}()
		f()
	}()
	return flt
}

// lockstepBus fails the test whenever the data register is touched without
// the matching LSR bit having been observed by the access just before.
type lockstepBus struct {
	t   *testing.T
	dev *sim.Device

	lastWasLSR bool
	lastLSR    byte
}

func (b *lockstepBus) In(port uint16) byte {
	off := port - uint16(COM1)
	v := b.dev.In(port)
	if off == regData && !b.dev.DLAB() && (!b.lastWasLSR || b.lastLSR&LSR_DR == 0) {
		b.t.Errorf("RBR read without DR observed immediately before")
	}
	b.lastWasLSR = off == regLSR
	b.lastLSR = v
	return v
}

func (b *lockstepBus) Out(port uint16, value byte) {
	off := port - uint16(COM1)
	if off == regData && !b.dev.DLAB() && (!b.lastWasLSR || b.lastLSR&LSR_THRE == 0) {
		b.t.Errorf("THR write of %#02x without THRE observed immediately before", value)
	}
	b.lastWasLSR = false
	b.dev.Out(port, value)
}

// slowBus hides LSR ready bits for the first busy LSR reads.
type slowBus struct {
	*sim.Device
	busy     int
	lsrReads int
	thrWrite int
}

func (b *slowBus) In(port uint16) byte {
	v := b.Device.In(port)
	if port == uint16(COM1)+regLSR {
		b.lsrReads++
		if b.lsrReads <= b.busy {
			v &^= LSR_THRE | LSR_DR
		}
	}
	return v
}

func (b *slowBus) Out(port uint16, value byte) {
	if port == uint16(COM1)+regData && !b.Device.DLAB() {
		b.thrWrite++
	}
	b.Device.Out(port, value)
}

// traceBus records every access.
type traceBus struct {
	Bus
	ops []access
}

type access struct {
	write bool
	off   uint16
	value byte
}

func (b *traceBus) In(port uint16) byte {
	v := b.Bus.In(port)
	b.ops = append(b.ops, access{off: port - uint16(COM1), value: v})
	return v
}

func (b *traceBus) Out(port uint16, value byte) {
	b.ops = append(b.ops, access{write: true, off: port - uint16(COM1), value: value})
	b.Bus.Out(port, value)
}
