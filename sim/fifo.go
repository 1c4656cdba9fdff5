// sim/fifo.go

package sim

// fifoSize is the depth of the 16550 receive FIFO. It must divide 256 so the
// free-running uint8 indices wrap cleanly.
const fifoSize uint8 = 16

// fifo is the receive FIFO. Head and tail run freely; the difference is the
// fill level.
type fifo struct {
	buf  [fifoSize]byte
	head uint8
	tail uint8
}

// Used returns how many bytes are queued.
func (f *fifo) Used() uint8 {
	return f.head - f.tail
}

// Put stores a byte. If the FIFO is already full, it returns false.
func (f *fifo) Put(val byte) bool {
	if f.Used() == fifoSize {
		return false
	}
	f.buf[f.head%fifoSize] = val
	f.head++
	return true
}

// Get returns the oldest byte, or (0, false) when empty.
func (f *fifo) Get() (byte, bool) {
	if f.Used() == 0 {
		return 0, false
	}
	v := f.buf[f.tail%fifoSize]
	f.tail++
	return v, true
}

// Clear drops everything queued.
func (f *fifo) Clear() {
	f.head = 0
	f.tail = 0
}
