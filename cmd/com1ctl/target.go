package main

import (
	"fmt"
	"io"

	"github.com/jangala-dev/tinygo-ns16550/ns16550"
	"github.com/jangala-dev/tinygo-ns16550/portio"
	"github.com/jangala-dev/tinygo-ns16550/sim"
)

// target is the channel a command operates on: the simulator or the real
// COM1 through a port device.
type target struct {
	uart  ns16550.UART
	name  string
	sim   *sim.Device // nil on hardware
	close func() error
}

// closeInto closes t and keeps the close error in *errp unless an earlier
// error is already there.
func (t *target) closeInto(errp *error) {
	if err := t.close(); err != nil && *errp == nil {
		*errp = err
	}
}

func openTarget(g *globalOptions, devPath string, useSim, trace bool, opts ...sim.Option) (*target, error) {
	if useSim || devPath == "" {
		d := sim.New(nil, opts...)
		return &target{
			uart:  ns16550.New(ns16550.COM1, g.traced(d, trace)),
			name:  "simulator",
			sim:   d,
			close: func() error { return nil },
		}, nil
	}
	p, err := portio.Open(devPath)
	if err != nil {
		return nil, err
	}
	return &target{
		uart:  ns16550.New(ns16550.COM1, g.traced(p, trace)),
		name:  p.Path(),
		close: p.Close,
	}, nil
}

// guard turns a panic raised by a port access (or a driver fault) into an
// error. Anything else keeps unwinding.
func guard(f func() error) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case error:
			err = r
		default:
			panic(r)
		}
	}()
	return f()
}

func printRegs(w io.Writer, r ns16550.Regs) {
	fmt.Fprintf(w, "IER=0x%02x IIR=0x%02x LCR=0x%02x MCR=0x%02x LSR=0x%02x MSR=0x%02x SCR=0x%02x\n",
		r.IER, r.IIR, r.LCR, r.MCR, r.LSR, r.MSR, r.SCR)
	fmt.Fprintf(w, "divisor=%d baud=%d loopback=%t\n", r.Divisor, r.Baud(), r.Loopback())
}
