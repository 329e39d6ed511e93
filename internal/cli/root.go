package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagUDID         string
	flagDaemonHost   string
	flagDaemonPort   int
	flagForceRestart bool
	flagLogLevel     string
)

var rootCmd = &cobra.Command{
	Use:          `idb`,
	Long:         `idb is a command line interface for controlling iOS simulators and devices`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUDID, "udid", "", "udid of the target companion")
	rootCmd.PersistentFlags().StringVar(&flagDaemonHost, "daemon-host", "", "host the daemon listens on")
	rootCmd.PersistentFlags().IntVar(&flagDaemonPort, "daemon-port", 0, "port the daemon listens on")
	rootCmd.PersistentFlags().BoolVar(&flagForceRestart, "force-restart-daemon", false, "kill any running daemon before connecting")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(listAppsCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(addMediaCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(listTargetsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(killCmd)
}
