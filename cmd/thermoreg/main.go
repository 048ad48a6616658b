package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thermoreg/thermoreg/pkg/client"
	"github.com/thermoreg/thermoreg/pkg/version"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/thermoreg.sock"
	configPath     = "/etc/thermoreg.json"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

var apiClient = client.NewClient(unixSocketPath)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: thermoreg daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'thermoreg daemon', or use 'thermoreg run' for a foreground simulation")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or start the daemon with the '--always-allow-non-root-access' flag to grant permissions to your user")
	}
}

// NewCommand .
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "thermoreg",
		Short:         "Simulated thermal/battery regulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			apiClient = client.NewClient(unixSocketPath)
			return setupLogger()
		},
	}

	for _, group := range commandGroups {
		cmd.AddGroup(&cobra.Group{ID: group, Title: group})
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	pf.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "path to the daemon unix socket")
	pf.StringVar(&configPath, "config", configPath, "path to the config file")

	cmd.AddCommand(
		NewRunCommand(),
		NewStatusCommand(),
		NewVersionCommand(),
		NewDaemonCommand(),
		NewResetCommand(),
		NewTickIntervalCommand(),
		NewReseedScheduleCommand(),
	)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
			// The daemon may be a different build than this client.
			if v, err := apiClient.GetVersion(); err == nil && v != "" && v != version.Version {
				cmd.Printf("daemon: %s\n", v)
			}
		},
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}
