// Package sim models the register bank of a 16550 UART so the driver can be
// exercised without hardware. A Device answers port reads and writes the way
// the real part does for the features the driver uses: divisor latch muxing,
// loopback, the receive FIFO and the line and modem status registers.
//
// Transmission is instantaneous: THRE and TEMT always read as set.
package sim

import (
	"errors"
	"io"
	"sync"
)

// ErrHangup is the panic value of any register access after Hangup.
var ErrHangup = errors.New("sim: line hung up")

// DefaultBase is the port base of COM1.
const DefaultBase = 0x3f8

// Register offsets.
const (
	regData = iota // RBR/THR, DLL with DLAB
	regIER         // DLM with DLAB
	regIIR         // FCR on write
	regLCR
	regMCR
	regLSR
	regMSR
	regSCR
)

const (
	lcrDLAB = 0x80

	lsrDR   = 0x01
	lsrOE   = 0x02
	lsrTHRE = 0x20
	lsrTEMT = 0x40

	mcrDTR  = 0x01
	mcrRTS  = 0x02
	mcrOUT1 = 0x04
	mcrOUT2 = 0x08
	mcrLOOP = 0x10

	msrCTS = 0x10
	msrDSR = 0x20
	msrRI  = 0x40
	msrDCD = 0x80

	fcrEnable  = 0x01
	fcrClearRX = 0x02

	iirNoPending = 0x01
	iirFIFOs     = 0xc0
)

// Device is a software 16550. It is safe for concurrent use: the driver can
// poll it from one goroutine while another feeds line input.
type Device struct {
	mu   sync.Mutex
	base uint16

	out      io.Writer // nil: transmitted bytes are captured
	captured []byte

	rx fifo

	dll, dlm byte
	ier      byte
	fcr      byte
	lcr      byte
	mcr      byte
	scr      byte
	overrun  bool

	// lines holds the modem status inputs seen outside loopback.
	lines byte

	loopbackHook func(b byte) byte
	hungUp       bool

	reads, writes int
}

// Option configures a Device.
type Option func(*Device)

// WithBase places the register bank at base instead of DefaultBase.
func WithBase(base uint16) Option {
	return func(d *Device) { d.base = base }
}

// WithLoopbackHook rewrites every byte echoed while loopback is active.
// Tests use it to break the self-test path.
func WithLoopbackHook(fn func(b byte) byte) Option {
	return func(d *Device) { d.loopbackHook = fn }
}

// WithCarrier reports CTS, DSR and DCD as asserted outside loopback, as a
// connected peer would.
func WithCarrier() Option {
	return func(d *Device) { d.lines = msrCTS | msrDSR | msrDCD }
}

// New returns a Device in its power-on state. Bytes transmitted outside
// loopback go to out; when out is nil they are kept for DrainOutput.
func New(out io.Writer, opts ...Option) *Device {
	d := &Device{base: DefaultBase, out: out}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// In implements ns16550.Bus.
func (d *Device) In(port uint16) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hungUp {
		panic(ErrHangup)
	}

	d.reads++
	dlab := d.lcr&lcrDLAB != 0

	switch port - d.base {
	case regData:
		if dlab {
			return d.dll
		}
		b, _ := d.rx.Get()
		return b
	case regIER:
		if dlab {
			return d.dlm
		}
		return d.ier
	case regIIR:
		iir := byte(iirNoPending)
		if d.fcr&fcrEnable != 0 {
			iir |= iirFIFOs
		}
		return iir
	case regLCR:
		return d.lcr
	case regMCR:
		return d.mcr
	case regLSR:
		lsr := byte(lsrTHRE | lsrTEMT)
		if d.rx.Used() > 0 {
			lsr |= lsrDR
		}
		if d.overrun {
			lsr |= lsrOE
			d.overrun = false
		}
		return lsr
	case regMSR:
		return d.msr()
	case regSCR:
		return d.scr
	}
	// Unmapped ports float high.
	return 0xff
}

// Out implements ns16550.Bus.
func (d *Device) Out(port uint16, value byte) {
	d.mu.Lock()
	if d.hungUp {
		d.mu.Unlock()
		panic(ErrHangup)
	}

	d.writes++
	dlab := d.lcr&lcrDLAB != 0
	var tx []byte

	switch port - d.base {
	case regData:
		if dlab {
			d.dll = value
			break
		}
		tx = d.transmitLocked(value)
	case regIER:
		if dlab {
			d.dlm = value
			break
		}
		d.ier = value & 0x0f
	case regIIR:
		d.fcr = value
		if value&fcrClearRX != 0 {
			d.rx.Clear()
		}
	case regLCR:
		d.lcr = value
	case regMCR:
		d.mcr = value & 0x1f
	case regSCR:
		d.scr = value
	}

	out := d.out
	d.mu.Unlock()

	// Deliver outside the lock so a slow writer does not stall the input side.
	if len(tx) > 0 {
		_, _ = out.Write(tx)
	}
}

// transmitLocked handles a THR write and returns bytes that must be delivered
// to out once the lock is released.
func (d *Device) transmitLocked(b byte) []byte {
	if d.mcr&mcrLOOP != 0 {
		if d.loopbackHook != nil {
			b = d.loopbackHook(b)
		}
		d.receiveLocked(b)
		return nil
	}
	if d.out == nil {
		d.captured = append(d.captured, b)
		return nil
	}
	return []byte{b}
}

func (d *Device) receiveLocked(b byte) {
	if !d.rx.Put(b) {
		d.overrun = true
	}
}

func (d *Device) msr() byte {
	if d.mcr&mcrLOOP == 0 {
		return d.lines
	}
	var msr byte
	if d.mcr&mcrRTS != 0 {
		msr |= msrCTS
	}
	if d.mcr&mcrDTR != 0 {
		msr |= msrDSR
	}
	if d.mcr&mcrOUT1 != 0 {
		msr |= msrRI
	}
	if d.mcr&mcrOUT2 != 0 {
		msr |= msrDCD
	}
	return msr
}

// Receive delivers one byte from the line into the receive FIFO. A full FIFO
// drops the byte and latches the overrun bit, as the hardware does.
func (d *Device) Receive(b byte) {
	d.mu.Lock()
	d.receiveLocked(b)
	d.mu.Unlock()
}

// TryReceive delivers b only if the FIFO has room and reports whether it did.
// Host bridges use it to apply back-pressure instead of losing input.
func (d *Device) TryReceive(b byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rx.Put(b)
}

// Feed delivers p with Receive semantics.
func (d *Device) Feed(p []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range p {
		d.receiveLocked(b)
	}
}

// TryFeed delivers all of p or, if the FIFO lacks room, none of it. A
// multi-byte character fed this way is never seen half-arrived.
func (d *Device) TryFeed(p []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(fifoSize-d.rx.Used()) < len(p) {
		return false
	}
	for _, b := range p {
		d.rx.Put(b)
	}
	return true
}

// Hangup disconnects the register bank. Every later In or Out panics with
// ErrHangup, which unwinds a driver goroutine blocked in a polling loop.
func (d *Device) Hangup() {
	d.mu.Lock()
	d.hungUp = true
	d.mu.Unlock()
}

// DrainOutput returns and clears the bytes captured since the last call.
// It is only meaningful when the Device was created with a nil writer.
func (d *Device) DrainOutput() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := string(d.captured)
	d.captured = d.captured[:0]
	return s
}

// Buffered returns the receive FIFO fill level.
func (d *Device) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int(d.rx.Used())
}

// Divisor returns the latched baud divisor.
func (d *Device) Divisor() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint16(d.dlm)<<8 | uint16(d.dll)
}

// DLAB reports whether the divisor latch access bit is set.
func (d *Device) DLAB() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lcr&lcrDLAB != 0
}

// Loopback reports whether the modem control register selects loopback.
func (d *Device) Loopback() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mcr&mcrLOOP != 0
}

// Regs returns the raw IER, FCR, LCR and MCR contents.
func (d *Device) Regs() (ier, fcr, lcr, mcr byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ier, d.fcr, d.lcr, d.mcr
}

// Accesses returns the number of port reads and writes served.
func (d *Device) Accesses() (reads, writes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads, d.writes
}
