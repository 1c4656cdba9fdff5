package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/tinygo-ns16550/ns16550"
)

func newDivisorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "divisor BAUD...",
		Short: "Print the divisor latch value for each baud rate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, arg := range args {
				baud, err := strconv.ParseUint(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("bad baud rate %q: %w", arg, err)
				}
				div, err := ns16550.CalculateDivisor(uint32(baud))
				if err != nil {
					fmt.Fprintf(w, "%d: %v\n", baud, err)
					failed++
					continue
				}
				fmt.Fprintf(w, "%d: %d\n", baud, div)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rates cannot be programmed", failed, len(args))
			}
			return nil
		},
	}
}
