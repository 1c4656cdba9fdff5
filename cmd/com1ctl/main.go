// Command com1ctl drives a 16550 console UART: it computes divisors, runs the
// loopback self-test, dumps the register bank and hosts the boot console on a
// simulated channel.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/tinygo-ns16550/ns16550"
	"github.com/jangala-dev/tinygo-ns16550/portio"
)

var logger = log.New(os.Stderr, "com1ctl: ", 0)

type globalOptions struct {
	verbose bool
}

// traced wraps b in a port access logger when --verbose (or force) is set.
func (g *globalOptions) traced(b ns16550.Bus, force bool) ns16550.Bus {
	if !g.verbose && !force {
		return b
	}
	return portio.Trace{Bus: b, Logger: logger}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "com1ctl",
		Short:         "Drive and exercise a 16550 console UART",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every port access")

	root.AddCommand(
		newDivisorCmd(),
		newSelftestCmd(g),
		newProbeCmd(g),
		newConsoleCmd(g),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Print(err)
		os.Exit(1)
	}
}
