package ns16550

// ClockBaud is the rate produced by a divisor of 1 (1.8432 MHz / 16).
const ClockBaud = 115200

// CalculateDivisor converts a baud rate into the 16-bit divisor latch value
// 115200/baud (floor). A zero quotient or one that overflows 16 bits is
// rejected with a *BaudError; baud 0 counts as too small.
func CalculateDivisor(baud uint32) (uint16, error) {
	if baud == 0 {
		return 0, &BaudError{Baud: baud, Err: ErrBaudTooSmall}
	}
	q := ClockBaud / baud
	switch {
	case q > 0xffff:
		return 0, &BaudError{Baud: baud, Err: ErrBaudTooSmall}
	case q == 0:
		return 0, &BaudError{Baud: baud, Err: ErrBaudTooLarge}
	}
	return uint16(q), nil
}

// SetBaud programs the divisor for baud and returns the value written.
// On error no register is touched.
func (u UART) SetBaud(baud uint32) (uint16, error) {
	d, err := CalculateDivisor(baud)
	if err != nil {
		return 0, err
	}
	u.SetDivisor(d)
	return d, nil
}
