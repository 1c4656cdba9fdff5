package sim

import (
	"bytes"
	"testing"
)

const (
	com1 = DefaultBase
	thr  = com1 + regData
	ier  = com1 + regIER
	fcr  = com1 + regIIR
	lcr  = com1 + regLCR
	mcr  = com1 + regMCR
	lsr  = com1 + regLSR
	msr  = com1 + regMSR
	scr  = com1 + regSCR
)

func TestDevice_DivisorLatchMuxing(t *testing.T) {
	d := New(nil)

	d.Out(lcr, lcrDLAB)
	d.Out(thr, 0x03)
	d.Out(ier, 0x01)
	d.Out(lcr, 0x03)

	if got := d.Divisor(); got != 0x0103 {
		t.Fatalf("divisor = %#04x, want 0x0103", got)
	}
	if d.DLAB() {
		t.Fatal("DLAB still set")
	}
	if got := d.In(ier); got != 0 {
		t.Fatalf("IER = %#02x after divisor write, want 0", got)
	}
	if out := d.DrainOutput(); out != "" {
		t.Fatalf("divisor write leaked to line: %q", out)
	}
}

func TestDevice_TransmitCaptured(t *testing.T) {
	d := New(nil)
	for _, c := range []byte("hi\n") {
		d.Out(thr, c)
	}
	if out := d.DrainOutput(); out != "hi\n" {
		t.Fatalf("output = %q, want %q", out, "hi\n")
	}
	if out := d.DrainOutput(); out != "" {
		t.Fatalf("second drain = %q, want empty", out)
	}
}

func TestDevice_TransmitToWriter(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	d.Out(thr, 'A')
	d.Out(thr, 'B')
	if buf.String() != "AB" {
		t.Fatalf("writer got %q, want %q", buf.String(), "AB")
	}
}

func TestDevice_LoopbackEchoes(t *testing.T) {
	d := New(nil)
	d.Out(mcr, mcrLOOP|mcrOUT2|mcrOUT1|mcrRTS)

	if got := d.In(lsr); got&lsrDR != 0 {
		t.Fatalf("LSR = %#02x, data ready before transmit", got)
	}
	d.Out(thr, 0xe9)
	if got := d.In(lsr); got&lsrDR == 0 {
		t.Fatalf("LSR = %#02x, no data after loopback transmit", got)
	}
	if got := d.In(thr); got != 0xe9 {
		t.Fatalf("RBR = %#02x, want 0xe9", got)
	}
	if out := d.DrainOutput(); out != "" {
		t.Fatalf("loopback byte reached the line: %q", out)
	}
}

func TestDevice_LoopbackHook(t *testing.T) {
	d := New(nil, WithLoopbackHook(func(b byte) byte { return ^b }))
	d.Out(mcr, mcrLOOP)
	d.Out(thr, 0xe9)
	if got := d.In(thr); got != 0x16 {
		t.Fatalf("RBR = %#02x, want 0x16", got)
	}
}

func TestDevice_ModemStatus(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		mcr  byte
		want byte
	}{
		{"idle", nil, 0, 0},
		{"carrier", []Option{WithCarrier()}, mcrDTR | mcrRTS, msrCTS | msrDSR | msrDCD},
		{"loopback rts out2", nil, mcrLOOP | mcrRTS | mcrOUT2, msrCTS | msrDCD},
		{"loopback all", nil, 0x1f, msrCTS | msrDSR | msrRI | msrDCD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(nil, tt.opts...)
			d.Out(mcr, tt.mcr)
			if got := d.In(msr); got != tt.want {
				t.Fatalf("MSR = %#02x, want %#02x", got, tt.want)
			}
		})
	}
}

func TestDevice_OverrunLatchesAndClears(t *testing.T) {
	d := New(nil)
	for i := 0; i < int(fifoSize)+1; i++ {
		d.Receive(byte('a' + i))
	}
	if got := d.Buffered(); got != int(fifoSize) {
		t.Fatalf("buffered = %d, want %d", got, fifoSize)
	}
	if got := d.In(lsr); got&lsrOE == 0 {
		t.Fatalf("LSR = %#02x, want OE", got)
	}
	if got := d.In(lsr); got&lsrOE != 0 {
		t.Fatalf("LSR = %#02x, OE not cleared by read", got)
	}
	if got := d.In(thr); got != 'a' {
		t.Fatalf("first byte = %q, want 'a'", got)
	}
}

func TestDevice_TryReceiveRespectsCapacity(t *testing.T) {
	d := New(nil)
	for i := 0; i < int(fifoSize); i++ {
		if !d.TryReceive('x') {
			t.Fatalf("TryReceive failed at %d", i)
		}
	}
	if d.TryReceive('y') {
		t.Fatal("TryReceive accepted a byte into a full FIFO")
	}
	if got := d.In(lsr); got&lsrOE != 0 {
		t.Fatalf("LSR = %#02x, TryReceive must not overrun", got)
	}
}

func TestDevice_TryFeedIsAllOrNothing(t *testing.T) {
	d := New(nil)
	if !d.TryFeed(bytes.Repeat([]byte{'x'}, int(fifoSize)-2)) {
		t.Fatal("TryFeed refused bytes that fit")
	}
	if d.TryFeed([]byte("\xe2\x82\xac")) {
		t.Fatal("TryFeed accepted three bytes into two free slots")
	}
	if got := d.Buffered(); got != int(fifoSize)-2 {
		t.Fatalf("buffered = %d, want %d: a refused feed must not be split", got, fifoSize-2)
	}
	if !d.TryFeed([]byte("\xce\xb5")) {
		t.Fatal("TryFeed refused a sequence that exactly fills the FIFO")
	}
}

func TestDevice_HangupPanicsOnAccess(t *testing.T) {
	d := New(nil)
	d.Hangup()

	for name, access := range map[string]func(){
		"in":  func() { d.In(lsr) },
		"out": func() { d.Out(thr, 'a') },
	} {
		func() {
			defer func() {
				if r := recover(); r != ErrHangup {
					t.Fatalf("%s after Hangup: recovered %v, want ErrHangup", name, r)
				}
			}()
			access()
		}()
	}
	// The lock must have been released on the way out.
	if got := d.Buffered(); got != 0 {
		t.Fatalf("buffered = %d", got)
	}
}

func TestDevice_Accesses(t *testing.T) {
	d := New(nil)
	d.Out(scr, 1)
	d.In(scr)
	d.In(lsr)
	if r, w := d.Accesses(); r != 2 || w != 1 {
		t.Fatalf("Accesses = %d reads, %d writes; want 2, 1", r, w)
	}
}

func TestDevice_FIFOControlClearsReceive(t *testing.T) {
	d := New(nil)
	d.Feed([]byte("abc"))
	d.Out(fcr, 0xc7)
	if got := d.Buffered(); got != 0 {
		t.Fatalf("buffered = %d after FCR clear, want 0", got)
	}
	if got := d.In(fcr); got&iirFIFOs != iirFIFOs {
		t.Fatalf("IIR = %#02x, want FIFO bits set", got)
	}
}

func TestDevice_ScratchAndUnmapped(t *testing.T) {
	d := New(nil, WithBase(0x2f8))
	d.Out(0x2f8+regSCR, 0x5a)
	if got := d.In(0x2f8 + regSCR); got != 0x5a {
		t.Fatalf("SCR = %#02x, want 0x5a", got)
	}
	if got := d.In(scr); got != 0xff {
		t.Fatalf("unmapped port = %#02x, want 0xff", got)
	}
}

func TestFIFO_WrapAround(t *testing.T) {
	var f fifo
	for round := 0; round < 40; round++ {
		if !f.Put(byte(round)) {
			t.Fatalf("round %d: put failed", round)
		}
		v, ok := f.Get()
		if !ok || v != byte(round) {
			t.Fatalf("round %d: got %d,%v", round, v, ok)
		}
	}
	if f.Used() != 0 {
		t.Fatalf("used = %d, want 0", f.Used())
	}
}
