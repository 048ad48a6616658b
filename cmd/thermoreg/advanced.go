package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Reseed the running simulation",
		GroupID: gAdvanced,
		Long: `Abandon the current sequence and start over from fresh random sensor readings.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.Reset()
			if err != nil {
				return fmt.Errorf("failed to reset simulation: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully reseeded the simulation")

			return nil
		},
	}
}

func NewTickIntervalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tick-interval [duration]",
		Short:   "Set the simulation tick interval",
		GroupID: gAdvanced,
		Long: `Set the pause between simulation steps, e.g. "500ms" or "2s".

The new interval is persisted to the config file and picked up by the running loop without a restart.`,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("invalid number of arguments")
			}
			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid tick interval: %v", err)
			}

			ret, err := apiClient.SetTickInterval(d)
			if err != nil {
				return fmt.Errorf("failed to set tick interval: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set tick interval to %v", d)

			return nil
		},
	}
}

func NewReseedScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reseed-schedule [cron expression]",
		Short:   "Schedule periodic reseeds",
		GroupID: gAdvanced,
		Long: `Reseed the simulation on a cron schedule, e.g. "@every 1h" or "0 0 * * *".`,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("invalid number of arguments")
			}

			ret, err := apiClient.SetReseedSchedule(args[0])
			if err != nil {
				return fmt.Errorf("failed to set reseed schedule: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "skip",
		Short: "Skip the next scheduled reseed",
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.SkipReseed()
			if err != nil {
				return fmt.Errorf("failed to skip next reseed: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable the reseed schedule",
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.SetReseedSchedule("")
			if err != nil {
				return fmt.Errorf("failed to disable reseed schedule: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			return nil
		},
	})

	return cmd
}
