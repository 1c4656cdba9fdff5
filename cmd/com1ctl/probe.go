package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/tinygo-ns16550/portio"
)

func newProbeCmd(g *globalOptions) *cobra.Command {
	var (
		devPath string
		useSim  bool
		trace   bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Dump the COM1 register bank without consuming input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t, err := openTarget(g, devPath, useSim, trace)
			if err != nil {
				return err
			}
			defer t.closeInto(&err)

			logger.Printf("probing %s", t.name)
			w := cmd.OutOrStdout()
			err = guard(func() error {
				printRegs(w, t.uart.DebugRegs())
				return nil
			})
			if err == nil && t.sim != nil {
				reads, writes := t.sim.Accesses()
				fmt.Fprintf(w, "accesses: reads=%d writes=%d\n", reads, writes)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&devPath, "dev", portio.DefaultPath, "port device")
	cmd.Flags().BoolVar(&useSim, "sim", false, "probe a freshly reset simulator instead")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every port access")
	return cmd
}
