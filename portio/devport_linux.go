//go:build linux

package portio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DevPort reads and writes I/O ports through /dev/port, where the file
// offset is the port number. It needs CAP_SYS_RAWIO.
//
// ns16550.Bus has no error path, so a failed access panics with an *IOError.
type DevPort struct {
	fd   int
	path string
}

// IOError describes a failed port access.
type IOError struct {
	Op   string
	Port uint16
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("portio: %s port %#x: %v", e.Op, e.Port, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Open opens the port device at path (DefaultPath when empty).
func Open(path string) (*DevPort, error) {
	if path == "" {
		path = DefaultPath
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("portio: open %s: %w", path, err)
	}
	return &DevPort{fd: fd, path: path}, nil
}

func (d *DevPort) In(port uint16) byte {
	var b [1]byte
	n, err := unix.Pread(d.fd, b[:], int64(port))
	if err == nil && n != 1 {
		err = unix.EIO
	}
	if err != nil {
		panic(&IOError{Op: "read", Port: port, Err: err})
	}
	return b[0]
}

func (d *DevPort) Out(port uint16, value byte) {
	b := [1]byte{value}
	n, err := unix.Pwrite(d.fd, b[:], int64(port))
	if err == nil && n != 1 {
		err = unix.EIO
	}
	if err != nil {
		panic(&IOError{Op: "write", Port: port, Err: err})
	}
}

// Path returns the device the ports are accessed through.
func (d *DevPort) Path() string { return d.path }

func (d *DevPort) Close() error {
	return unix.Close(d.fd)
}
