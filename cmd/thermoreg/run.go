package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thermoreg/thermoreg/pkg/sim"
)

// consoleReporter prints phase transitions as human-readable lines.
type consoleReporter struct {
	out io.Writer
}

func (r consoleReporter) Report(s sim.Snapshot) {
	fmt.Fprintf(r.out, "The actual temperature is %.2f. %s at %.1f%% of battery.\n",
		s.Temperature, stateColored(s.State), s.BatteryCharge)
}

func NewRunCommand() *cobra.Command {
	var (
		cycles          uint64
		tickInterval    time.Duration
		seedTemperature float64
		seedCharge      float64
	)

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a simulation in the foreground",
		GroupID: gBasic,
		Long: `Run a simulation in the foreground, without the daemon.

The regulator loops forever: each finished sequence seeds a new one. Use --cycles to stop after a number of finished sequences, or interrupt with Ctrl-C.

By default each sequence starts from random sensor readings. Pass both --seed-temperature and --seed-charge for a deterministic starting point.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var initialize sim.Initializer
			seeded := seedTemperature >= 0 || seedCharge >= 0
			if seeded {
				if seedTemperature < 0 || seedCharge < 0 {
					return fmt.Errorf("--seed-temperature and --seed-charge must be used together")
				}
				initialize = func() sim.Snapshot {
					return sim.Snapshot{
						Temperature:   seedTemperature,
						BatteryCharge: seedCharge,
						State:         sim.StateStart,
					}
				}
			}

			drv := sim.NewDriver(initialize, consoleReporter{out: cmd.OutOrStdout()})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				if err := drv.Tick(); err != nil {
					return err
				}
				if cycles > 0 && drv.Cycles() >= cycles {
					return nil
				}

				if tickInterval > 0 {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(tickInterval):
					}
				}
			}
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&cycles, "cycles", 0, "stop after this many finished sequences (0 = run forever)")
	f.DurationVar(&tickInterval, "tick-interval", 0, "pause between simulation steps (0 = as fast as possible)")
	f.Float64Var(&seedTemperature, "seed-temperature", -1, "fixed starting temperature instead of a random one")
	f.Float64Var(&seedCharge, "seed-charge", -1, "fixed starting battery charge instead of a random one")

	return cmd
}
