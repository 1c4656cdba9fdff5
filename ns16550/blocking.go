// ns16550/blocking.go

package ns16550

import (
	"context"
	"runtime"
	"time"
)

// WaitReadable polls LSR until a byte is available or ctx is done.
func (u UART) WaitReadable(ctx context.Context) error {
	for !u.IsDataAvailable() {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// ReceiveByteContext is ReceiveByte with a way out.
func (u UART) ReceiveByteContext(ctx context.Context) (byte, error) {
	if err := u.WaitReadable(ctx); err != nil {
		return 0, err
	}
	return u.ReadRBR(), nil
}

// ReadFull reads exactly len(p) bytes unless ctx ends first, in which case
// it returns the count read so far and the context error.
func (u UART) ReadFull(ctx context.Context, p []byte) (int, error) {
	for i := range p {
		b, err := u.ReceiveByteContext(ctx)
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// ReadWithTimeout fills p, giving up after d.
func (u UART) ReadWithTimeout(p []byte, d time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return u.ReadFull(ctx, p)
}
