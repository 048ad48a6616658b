package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thermoreg/thermoreg/pkg/config"
	"github.com/thermoreg/thermoreg/pkg/types"
)

type statusData struct {
	status *types.RegulatorStatus
	config *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	status, err := apiClient.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		status: status,
		config: conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of the simulation",
		Long:    `Get the current snapshot, cycle count and configuration of the running daemon.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				snap, err := apiClient.GetSnapshot()
				if err != nil {
					return fmt.Errorf("failed to get snapshot: %w", err)
				}
				cmd.Printf("The actual temperature is %.2f. %s at %.1f%% of battery.\n",
					snap.Temperature, stateColored(snap.State), snap.BatteryCharge)
				return nil
			}

			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			conf := config.NewFileFromConfig(data.config, "")
			snap := data.status.Snapshot

			cmd.Println(bold("Simulation:"))
			cmd.Printf("  State: %s\n", stateColored(snap.State))
			cmd.Printf("  Temperature: %.2f degrees\n", snap.Temperature)
			cmd.Printf("  Battery charge: %.1f%%\n", snap.BatteryCharge)
			cmd.Printf("  Finished sequences: %d\n", data.status.Cycles)
			cmd.Printf("  Ticks in the last minute: %d\n", data.status.TicksLastMinute)

			if data.status.ReseedSchedule != "" {
				cmd.Printf("  Reseed schedule: %s\n", data.status.ReseedSchedule)
				if data.status.NextReseed != nil {
					cmd.Printf("  Next reseed: %s\n", data.status.NextReseed.Format(time.RFC1123))
				}
			}

			cmd.Println()
			cmd.Println(bold("Configuration:"))
			cmd.Printf("  Tick interval: %v\n", conf.TickInterval())
			cmd.Printf("  Seed ranges: temperature [0, %d), charge [0, %d)\n",
				conf.SeedMaxTemperature(), conf.SeedMaxCharge())

			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the current snapshot")

	return cmd
}
