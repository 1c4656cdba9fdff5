// ns16550/registers.go

package ns16550

// Explicit per-register accessors. Every accessor assumes DLAB is clear on
// entry and leaves it clear on exit; only the divisor accessors toggle it.

func (u UART) in(off uint16) byte         { return u.Bus.In(uint16(u.Port) + off) }
func (u UART) out(off uint16, value byte) { u.Bus.Out(uint16(u.Port)+off, value) }

// ReadRBR reads the receive buffer register without checking LSR.
func (u UART) ReadRBR() byte { return u.in(regData) }

// WriteTHR writes the transmit holding register without checking LSR.
func (u UART) WriteTHR(b byte) { u.out(regData, b) }

func (u UART) ReadIER() byte   { return u.in(regIER) }
func (u UART) WriteIER(b byte) { u.out(regIER, b) }

// ReadIIR reads the interrupt identification register. Offset 2 is the FIFO
// control register on write.
func (u UART) ReadIIR() byte   { return u.in(regIIR) }
func (u UART) WriteFCR(b byte) { u.out(regIIR, b) }

func (u UART) ReadLCR() byte   { return u.in(regLCR) }
func (u UART) WriteLCR(b byte) { u.out(regLCR, b) }

func (u UART) ReadMCR() byte   { return u.in(regMCR) }
func (u UART) WriteMCR(b byte) { u.out(regMCR, b) }

// LSR and MSR are read-only in normal operation; the writes exist for
// factory test and are otherwise ignored by real parts.
func (u UART) ReadLSR() byte   { return u.in(regLSR) }
func (u UART) WriteLSR(b byte) { u.out(regLSR, b) }
func (u UART) ReadMSR() byte   { return u.in(regMSR) }
func (u UART) WriteMSR(b byte) { u.out(regMSR, b) }

func (u UART) ReadSCR() byte   { return u.in(regSCR) }
func (u UART) WriteSCR(b byte) { u.out(regSCR, b) }

// SetDLAB sets or clears the divisor latch access bit with a
// read-modify-write of LCR.
func (u UART) SetDLAB(enable bool) {
	lcr := u.ReadLCR()
	if enable {
		lcr |= LCR_DLAB
	} else {
		lcr &^= LCR_DLAB
	}
	u.WriteLCR(lcr)
}

// withDLAB runs f with DLAB set and clears it on every exit path.
func (u UART) withDLAB(f func()) {
	u.SetDLAB(true)
	defer u.SetDLAB(false)
	f()
}

// ReadDivisorLow reads DLL.
func (u UART) ReadDivisorLow() (b byte) {
	u.withDLAB(func() { b = u.in(regData) })
	return b
}

// ReadDivisorHigh reads DLM.
func (u UART) ReadDivisorHigh() (b byte) {
	u.withDLAB(func() { b = u.in(regIER) })
	return b
}

// WriteDivisorLow writes DLL.
func (u UART) WriteDivisorLow(b byte) {
	u.withDLAB(func() { u.out(regData, b) })
}

// WriteDivisorHigh writes DLM.
func (u UART) WriteDivisorHigh(b byte) {
	u.withDLAB(func() { u.out(regIER, b) })
}

// SetDivisor programs the 16-bit baud divisor, low byte first.
func (u UART) SetDivisor(d uint16) {
	u.WriteDivisorLow(byte(d))
	u.WriteDivisorHigh(byte(d >> 8))
}

// Divisor reads back the 16-bit baud divisor, low byte first.
func (u UART) Divisor() uint16 {
	lo := u.ReadDivisorLow()
	hi := u.ReadDivisorHigh()
	return uint16(hi)<<8 | uint16(lo)
}
