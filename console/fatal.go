// Package console holds the consumers of the serial driver that make up the
// machine's console: the fatal error reporter and the boot-time echo loop.
package console

import (
	"fmt"
	"time"

	"github.com/jangala-dev/tinygo-ns16550/ns16550"
)

// Halt stops the machine. It is called after the fatal banner has been sent
// and is not expected to return.
type Halt func()

// HaltForever parks the caller for good.
func HaltForever() {
	for {
		time.Sleep(time.Hour)
	}
}

const noMessage = "<no message supplied>"

// Banner writes msg between two red rules of '=' on u.
func Banner(u ns16550.UART, msg string) {
	width := max(len(msg), 5) + 2

	u.Write("\n\x1b[31m")
	rule(u, width)
	u.Write("\n")
	u.Writeln(msg)
	u.Write("\n")
	rule(u, width)
	u.Write("\x1b[0m")
}

func rule(u ns16550.UART, width int) {
	for i := 0; i < width; i++ {
		u.TransmitByte('=')
	}
}

// Recover is the fatal error path. Deferred at the top of an execution
// context, it catches any panic (a *ns16550.Fault or otherwise), reports it
// on u and calls halt. It does nothing when there is no panic.
func Recover(u ns16550.UART, halt Halt) {
	r := recover()
	if r == nil {
		return
	}
	Banner(u, Message(r))
	halt()
}

// Message renders a panic value for the banner.
func Message(v any) string {
	var msg string
	switch v := v.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	case fmt.Stringer:
		msg = v.String()
	default:
		msg = fmt.Sprint(v)
	}
	if msg == "" {
		return noMessage
	}
	return msg
}
