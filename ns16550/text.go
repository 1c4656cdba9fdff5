// ns16550/text.go

package ns16550

import (
	"io"
	"math/bits"
	"runtime"
	"unicode/utf8"
)

const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// WriteByte transmits one byte. It implements io.ByteWriter and never
// returns an error.
func (u UART) WriteByte(b byte) error {
	u.TransmitByte(b)
	return nil
}

// ReadByte blocks for one raw byte. It implements io.ByteReader and never
// returns an error.
func (u UART) ReadByte() (byte, error) {
	return u.ReceiveByte(), nil
}

// WriteBytes transmits p in order.
func (u UART) WriteBytes(p []byte) {
	for _, b := range p {
		u.TransmitByte(b)
	}
}

// Write transmits the UTF-8 bytes of s.
func (u UART) Write(s string) {
	for i := 0; i < len(s); i++ {
		u.TransmitByte(s[i])
	}
}

// Writeln transmits s followed by a line feed.
func (u UART) Writeln(s string) {
	u.Write(s)
	u.TransmitByte('\n')
}

// WriteChar transmits the UTF-8 encoding of r (1 to 4 bytes). Invalid runes
// are sent as U+FFFD.
func (u UART) WriteChar(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	u.WriteBytes(buf[:n])
}

// WriteUint renders v in the given radix, most significant digit first,
// using 0-9 then A-Z. There is no padding and no sign. A radix outside
// 2..34 is a programming error and faults.
func (u UART) WriteUint(v uint, radix uint) {
	if radix < 2 || radix > 34 {
		fault("bad radix for WriteUint", nil)
	}
	u.writeUint(v, radix)
}

func (u UART) writeUint(v, radix uint) {
	if v >= radix {
		u.writeUint(v/radix, radix)
	}
	u.TransmitByte(digits[v%radix])
}

// ReadChar blocks until a byte arrives, then reads RBR up to four times
// without waiting, stopping after a zero byte, and decodes the result with
// DecodeChar. An empty FIFO reads as 0, so a lone keystroke ends the group.
// Input that does not decode is unrecoverable and faults.
func (u UART) ReadChar() rune {
	for !u.IsDataAvailable() {
		runtime.Gosched()
	}

	var buf [utf8.UTFMax]byte
	for i := range buf {
		buf[i] = u.ReadRBR()
		if buf[i] == 0 {
			break
		}
	}

	r, err := DecodeChar(buf)
	if err != nil {
		fault("invalid character read from serial; exiting now", err)
	}
	return r
}

// DecodeChar decodes the bytes gathered by ReadChar.
//
// Let n be the number of non-zero bytes and k the number of leading one bits
// of b[0]. When n > 1 and n == k the bytes form a k-byte sequence and every
// byte after the first must be a continuation byte. When k == 0, b[0] is the
// character and any further bytes are ignored. Anything else is malformed.
// The result must be a Unicode scalar value.
func DecodeChar(b [utf8.UTFMax]byte) (rune, error) {
	n := 0
	for _, c := range b {
		if c != 0 {
			n++
		}
	}
	k := bits.LeadingZeros8(^b[0])

	var v rune
	switch {
	case n > 1 && n == k:
		v = rune(b[0]) & (1<<(7-k) - 1)
		for _, c := range b[1:n] {
			if bits.LeadingZeros8(^c) != 1 {
				return utf8.RuneError, ErrMalformedChar
			}
			v = v<<6 | rune(c&0x3f)
		}
	case k == 0:
		v = rune(b[0])
	default:
		return utf8.RuneError, ErrMalformedChar
	}

	if !utf8.ValidRune(v) {
		return utf8.RuneError, ErrInvalidScalar
	}
	return v, nil
}

// Writer returns an io.Writer that transmits through u, for use with
// fmt.Fprintf and friends.
func (u UART) Writer() io.Writer { return writer{u} }

type writer struct{ u UART }

func (w writer) Write(p []byte) (int, error) {
	w.u.WriteBytes(p)
	return len(p), nil
}
