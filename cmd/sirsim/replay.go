package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"sirsim/internal/report"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a trajectory log file",
	Long:  "replay feeds trajectory rows from a JSONL export back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer, err := newTrajectoryWriter(replayPrintOnly)
		if err != nil {
			return err
		}
		n, err := report.ReplayLogFile(replayInput, writer, replaySpeed)
		if err != nil {
			return err
		}
		slog.Info("replay finished", "input", replayInput, "rows", n)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to trajectory log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Time compression factor (86400 plays one day per second, 0 disables delays)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
