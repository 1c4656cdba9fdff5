package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tarm/serial"
	"golang.org/x/term"
)

// endpoint is the far side of the simulated line. Close restores whatever
// state opening it changed and may be called more than once.
type endpoint interface {
	io.ReadWriteCloser
}

// terminal is the controlling terminal in raw mode. Output gets CRLF line
// endings since raw mode turns off the tty's own translation.
type terminal struct {
	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
	once  sync.Once
}

func openTerminal(in, out *os.File) (*terminal, error) {
	t := &terminal{in: in, out: crlfWriter{out}, fd: int(in.Fd())}
	if term.IsTerminal(t.fd) {
		st, err := term.MakeRaw(t.fd)
		if err != nil {
			return nil, fmt.Errorf("raw mode: %w", err)
		}
		t.state = st
	}
	return t, nil
}

func (t *terminal) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t *terminal) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t *terminal) Close() error {
	var err error
	t.once.Do(func() {
		if t.state != nil {
			err = term.Restore(t.fd, t.state)
		}
	})
	return err
}

// serialPort is a host serial device. Bytes pass through unchanged.
type serialPort struct {
	*serial.Port
	once sync.Once
	err  error
}

func openSerial(name string, baud int) (*serialPort, error) {
	p, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &serialPort{Port: p}, nil
}

func (s *serialPort) Close() error {
	s.once.Do(func() { s.err = s.Port.Close() })
	return s.err
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
