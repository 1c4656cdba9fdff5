// ns16550/uart.go

// Package ns16550 is a polled driver for a 16550-compatible UART addressed
// through port I/O. It is meant as the console of an environment with no
// operating system: no interrupts, no buffering beyond the hardware holding
// register, and every blocking call spins until the line is ready.
//
// A UART value carries no state of its own; all mutable state lives in the
// device registers. Begin must run exactly once before any transfer.
package ns16550

import "runtime"

// UART is one 16550 channel. It is a plain value and may be copied freely.
type UART struct {
	Port Port
	Bus  Bus
}

// New returns the channel at port, accessed through bus.
func New(port Port, bus Bus) UART {
	return UART{Port: port, Bus: bus}
}

// Begin brings the channel from an unknown power-on state to 8N1 at baud
// with FIFOs enabled, and verifies the data path with a loopback probe before
// switching to normal operation.
//
// Errors from the divisor calculation are returned unchanged. If the probe
// does not echo, ErrLoopbackTestFailed is returned and the device is left in
// loopback mode.
func (u UART) Begin(baud uint32) error {
	u.WriteIER(0x00)

	if _, err := u.SetBaud(baud); err != nil {
		return err
	}

	u.WriteLCR(LCR_8N1)
	u.WriteFCR(fcrEnableClear14)
	u.WriteMCR(mcrLoopbackAux)
	u.WriteMCR(mcrLoopbackTest)

	u.TransmitByte(probeByte)
	if u.ReceiveByte() != probeByte {
		return ErrLoopbackTestFailed
	}

	u.WriteMCR(mcrNormal)
	return nil
}

// IsDataAvailable reports whether a received byte is waiting. It does not
// consume it.
func (u UART) IsDataAvailable() bool {
	return u.ReadLSR()&LSR_DR != 0
}

// IsTransmitEmpty reports whether the transmit holding register can take a
// byte.
func (u UART) IsTransmitEmpty() bool {
	return u.ReadLSR()&LSR_THRE != 0
}

// TransmitByte waits for THRE and writes b. There is no timeout.
func (u UART) TransmitByte(b byte) {
	for !u.IsTransmitEmpty() {
		runtime.Gosched() // polite yield
	}
	u.WriteTHR(b)
}

// ReceiveByte waits for DR and returns the received byte. A silent line
// blocks forever.
func (u UART) ReceiveByte() byte {
	for !u.IsDataAvailable() {
		runtime.Gosched()
	}
	return u.ReadRBR()
}
