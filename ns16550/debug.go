package ns16550

// Regs is a snapshot of the readable registers of a channel.
type Regs struct {
	IER     uint8
	IIR     uint8
	LCR     uint8
	MCR     uint8
	LSR     uint8
	MSR     uint8
	SCR     uint8
	Divisor uint16
}

// DebugRegs reads every register except RBR, so no received byte is
// consumed. Reading IIR acknowledges a pending THRE interrupt, which is
// harmless while IER is zero.
func (u UART) DebugRegs() Regs {
	return Regs{
		IER:     u.ReadIER(),
		IIR:     u.ReadIIR(),
		LCR:     u.ReadLCR(),
		MCR:     u.ReadMCR(),
		LSR:     u.ReadLSR(),
		MSR:     u.ReadMSR(),
		SCR:     u.ReadSCR(),
		Divisor: u.Divisor(),
	}
}

// Baud returns the rate implied by the programmed divisor, or 0 when the
// latch holds zero.
func (r Regs) Baud() uint32 {
	if r.Divisor == 0 {
		return 0
	}
	return ClockBaud / uint32(r.Divisor)
}

// Loopback reports whether the modem control register has loopback set.
func (r Regs) Loopback() bool { return r.MCR&MCR_LOOP != 0 }
