package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sirsim/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "sirsim",
	Short: "SIR epidemic simulator with capacity-rationed recovery",
	Long:  "sirsim runs discrete-time SIR scenarios against a finite treatment capacity and reports overload metrics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.NewWithLevel(os.Stderr, logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(l)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	level := os.Getenv("SIRSIM_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", level, "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
