package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jangala-dev/tinygo-ns16550/console"
	"github.com/jangala-dev/tinygo-ns16550/ns16550"
	"github.com/jangala-dev/tinygo-ns16550/sim"
)

// hangup ends a console session when typed on the line.
const hangup = 0x03

var errHangup = errors.New("session ended")

func newConsoleCmd(g *globalOptions) *cobra.Command {
	var (
		baud    uint32
		ttyPath string
		ttyBaud int
	)
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the boot console on a simulated COM1",
		Long: "Run the boot console on a simulated COM1 whose line is bridged to this " +
			"terminal, or to a host serial device with --tty. Ctrl-C or EOF ends the session.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ep  endpoint
				err error
			)
			if ttyPath != "" {
				ep, err = openSerial(ttyPath, ttyBaud)
			} else {
				ep, err = openTerminal(os.Stdin, os.Stdout)
			}
			if err != nil {
				return err
			}
			halt := func() {
				ep.Close()
				os.Exit(1)
			}
			return runConsole(cmd.Context(), g, ep, baud, halt)
		},
	}
	cmd.Flags().Uint32Var(&baud, "baud", console.DefaultBaud, "rate the console programs into COM1")
	cmd.Flags().StringVar(&ttyPath, "tty", "", "bridge the line to this serial device instead of the terminal")
	cmd.Flags().IntVar(&ttyBaud, "tty-baud", 115200, "rate of the --tty device")
	return cmd
}

// runConsole runs console.Run on a simulated channel whose line is ep. It
// returns when the session ends, after hanging up the channel and waiting
// for the console goroutine to unwind. halt is called if the console dies.
func runConsole(ctx context.Context, g *globalOptions, ep endpoint, baud uint32, halt func()) error {
	defer ep.Close()

	pr, pw := io.Pipe()
	dev := sim.New(pw)
	u := ns16550.New(ns16550.COM1, g.traced(dev, false))

	eg, ctx := errgroup.WithContext(ctx)
	drained := make(chan struct{})
	eg.Go(func() error {
		defer close(drained)
		_, err := io.Copy(ep, pr)
		return err
	})
	eg.Go(func() error {
		return pumpInput(ctx, ep, dev)
	})
	eg.Go(func() error {
		<-ctx.Done()
		pr.Close()
		return nil
	})

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); !ok || !errors.Is(err, sim.ErrHangup) {
					panic(r)
				}
			}
		}()
		console.Run(u, baud, func() {
			// Flush the banner before giving up the terminal.
			pw.Close()
			<-drained
			halt()
		})
	}()

	err := eg.Wait()
	dev.Hangup()
	<-stopped

	if !errors.Is(err, errHangup) {
		return err
	}
	return nil
}

// pumpInput delivers bytes read from src to the receive FIFO, waiting for
// room rather than overrunning it. A UTF-8 sequence is delivered whole. It
// ends with errHangup on EOF or Ctrl-C.
func pumpInput(ctx context.Context, src io.Reader, dev *sim.Device) error {
	buf := make([]byte, 64)
	for {
		n, err := src.Read(buf)
		for p := buf[:n]; len(p) > 0; {
			if p[0] == hangup {
				return errHangup
			}
			size := 1
			if p[0] >= utf8.RuneSelf {
				_, size = utf8.DecodeRune(p)
			}
			for !dev.TryFeed(p[:size]) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Millisecond):
				}
			}
			p = p[size:]
		}
		if err == io.EOF {
			return errHangup
		}
		if err != nil {
			return err
		}
	}
}
