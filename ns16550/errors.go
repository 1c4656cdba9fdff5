package ns16550

import (
	"errors"
	"strconv"
)

var (
	// ErrBaudTooSmall is returned when the divisor for the requested rate
	// does not fit in 16 bits.
	ErrBaudTooSmall = errors.New("too small (divisor has to be <65536)")
	// ErrBaudTooLarge is returned when the divisor for the requested rate
	// would be zero.
	ErrBaudTooLarge = errors.New("too large (divisor has to be >=1)")
	// ErrLoopbackTestFailed is returned by Begin when the probe byte does not
	// come back unchanged in loopback mode. The channel is left in loopback
	// and must be treated as unusable.
	ErrLoopbackTestFailed = errors.New("serial loopback test failed")

	ErrMalformedChar = errors.New("malformed UTF-8 sequence")
	ErrInvalidScalar = errors.New("not a Unicode scalar value")
)

// BaudError reports a baud rate the hardware cannot be programmed for.
// Err is ErrBaudTooSmall or ErrBaudTooLarge.
type BaudError struct {
	Baud uint32
	Err  error
}

func (e *BaudError) Error() string {
	return "cannot set baud to " + strconv.FormatUint(uint64(e.Baud), 10) + ": " + e.Err.Error()
}

func (e *BaudError) Unwrap() error { return e.Err }

// Fault is the panic value for unrecoverable conditions: malformed input on
// the line and programming errors such as an unsupported radix. It is never
// returned as an error. It unwinds to the top of the execution context where
// the fatal reporter (console.Recover) prints it and halts.
type Fault struct {
	Msg string
	Err error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Msg
	}
	return f.Msg + ": " + f.Err.Error()
}

func (f *Fault) Unwrap() error { return f.Err }

func fault(msg string, err error) {
	panic(&Fault{Msg: msg, Err: err})
}
