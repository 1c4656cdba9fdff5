// ns16550/bus.go

package ns16550

import "strconv"

// Bus is the raw port I/O capability the driver is built on. Each call is a
// single byte-wide access to one I/O port and is assumed to be atomic with no
// side effects beyond the addressed register.
//
// On bare metal this is a pair of IN/OUT instructions; on a hosted machine it
// can be /dev/port (see package portio) or a register model (see package sim).
type Bus interface {
	In(port uint16) byte
	Out(port uint16, value byte)
}

// Port is the I/O base address of a 16550 channel.
type Port uint16

// COM1 is the first legacy PC serial port.
const COM1 Port = 0x3f8

func (p Port) String() string {
	switch p {
	case COM1:
		return "COM1"
	}
	return "0x" + strconv.FormatUint(uint64(p), 16)
}

// Register offsets from the port base.
const (
	regData = 0 // RBR (read) / THR (write); DLL while DLAB is set
	regIER  = 1 // interrupt enable; DLM while DLAB is set
	regIIR  = 2 // interrupt identification (read) / FIFO control (write)
	regLCR  = 3
	regMCR  = 4
	regLSR  = 5
	regMSR  = 6
	regSCR  = 7
)

// Line control bits.
const (
	LCR_DLAB = 1 << 7 // divisor latch access
	LCR_8N1  = 0x03   // 8 data bits, no parity, one stop bit
)

// Line status bits.
const (
	LSR_DR   = 1 << 0 // data ready
	LSR_OE   = 1 << 1 // overrun
	LSR_THRE = 1 << 5 // transmit holding register empty
	LSR_TEMT = 1 << 6 // transmitter idle
)

// Modem control bits.
const (
	MCR_DTR  = 1 << 0
	MCR_RTS  = 1 << 1
	MCR_OUT1 = 1 << 2
	MCR_OUT2 = 1 << 3
	MCR_LOOP = 1 << 4
)

// Fixed bytes written by Begin.
const (
	fcrEnableClear14 = 0xc7                                     // enable FIFOs, clear RX/TX, 14 byte trigger
	mcrLoopbackAux   = MCR_DTR | MCR_RTS | MCR_OUT2             // 0x0b
	mcrLoopbackTest  = MCR_LOOP | MCR_OUT2 | MCR_OUT1 | MCR_RTS // 0x1e
	mcrNormal        = MCR_DTR | MCR_RTS | MCR_OUT1 | MCR_OUT2  // 0x0f
	probeByte        = 0xe9
)
