package console

import "github.com/jangala-dev/tinygo-ns16550/ns16550"

// DefaultBaud is the console rate used at boot.
const DefaultBaud = 38400

// Greeting is written once the channel is up.
const Greeting = "επόμενος"

// Run is the boot entry for the console. It initializes u at baud, writes
// the greeting and then answers every character read with its code point in
// hex followed by ';'. A failed Begin or undecodable input ends in the fatal
// banner and halt. Run only returns if halt does.
func Run(u ns16550.UART, baud uint32, halt Halt) {
	defer Recover(u, halt)

	if err := u.Begin(baud); err != nil {
		panic("Serial error!: " + err.Error())
	}

	u.Writeln(Greeting)

	for {
		r := u.ReadChar()
		u.WriteUint(uint(r), 16)
		u.TransmitByte(';')
	}
}
