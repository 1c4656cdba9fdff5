package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/tinygo-ns16550/console"
	"github.com/jangala-dev/tinygo-ns16550/sim"
)

func newSelftestCmd(g *globalOptions) *cobra.Command {
	var (
		baud    uint32
		devPath string
		useSim  bool
		corrupt bool
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Initialize COM1 and run the loopback self-test",
		Long: "Initialize COM1 and run the loopback self-test. The simulator is used " +
			"unless --dev names a port device.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var opts []sim.Option
			if corrupt {
				opts = append(opts, sim.WithLoopbackHook(func(b byte) byte { return ^b }))
			}
			t, err := openTarget(g, devPath, useSim, false, opts...)
			if err != nil {
				return err
			}
			defer t.closeInto(&err)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "selftest on %s at %d baud: ", t.name, baud)

			err = guard(func() error { return t.uart.Begin(baud) })
			if err != nil {
				fmt.Fprintf(w, "FAIL: %v\n", err)
			} else {
				fmt.Fprintln(w, "PASS")
			}
			if perr := guard(func() error {
				printRegs(w, t.uart.DebugRegs())
				return nil
			}); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}
	cmd.Flags().Uint32Var(&baud, "baud", console.DefaultBaud, "line rate to program")
	cmd.Flags().StringVar(&devPath, "dev", "", "port device for real hardware (e.g. /dev/port)")
	cmd.Flags().BoolVar(&useSim, "sim", false, "use the simulator even when --dev is set")
	cmd.Flags().BoolVar(&corrupt, "corrupt", false, "make the simulator corrupt looped-back bytes")
	return cmd
}
