package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sirsim/internal/chart"
	"sirsim/internal/logging"
	"sirsim/internal/record"
	"sirsim/internal/report"
)

var (
	runOpts        sweepOptions
	runPrintOnly   bool
	runLogFile     string
	runChartsDir   string
	runChartFormat string
	runTUI         bool
	runStart       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario sweep",
	Long: `run simulates every scenario of the sweep, exports the rows and prints a summary table with findings.

The transmission rate at which capacity is first breached is searched by
bisection unless --critical-beta=false; without it the tipping point and
policy investment findings are omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseStart(runStart)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, slog.Default())

		out, err := runSweep(ctx, runOpts)
		if err != nil {
			return err
		}

		tw, sw, cleanup, err := newWriters(runPrintOnly, runLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		var tui *report.TUIWriter
		if runTUI {
			tui = report.NewTUIWriter(out.cfg)
			tws := []report.TrajectoryWriter{tui}
			sws := []report.SummaryWriter{tui}
			if tw != nil {
				tws = append(tws, tw)
			}
			if sw != nil {
				sws = append(sws, sw)
			}
			mw := report.NewMultiWriter(tws, sws)
			tw, sw = mw, mw
		}

		err = report.Publish(ctx, out.results, start, tw, sw)
		if tui != nil {
			if err == nil {
				// Keep the TUI open until the user quits.
				<-ctx.Done()
			}
			tui.Close()
		}
		if err != nil && ctx.Err() == nil {
			return err
		}

		summaries := make([]record.SummaryRow, 0, len(out.results))
		for _, res := range out.results {
			summaries = append(summaries, record.Summary(res, start))
		}
		table := report.NewTableWriter()
		if err := table.WriteSummaries(summaries); err != nil {
			return err
		}
		if err := table.Flush(); err != nil {
			return err
		}
		if err := table.WriteFindings(out.findings); err != nil {
			return err
		}

		if runChartsDir != "" {
			paths, err := chart.RenderAll(runChartsDir, chart.Format(runChartFormat), out.results)
			if err != nil {
				return err
			}
			slog.Info("charts written", "dir", runChartsDir, "files", len(paths))
		}
		return nil
	},
}

func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start %q: %w", s, err)
	}
	return t, nil
}

func addSweepFlags(cmd *cobra.Command, opts *sweepOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	cmd.Flags().StringVar(&opts.scenariosPath, "scenarios", "", "Path to a scenario list YAML (defaults to the config's scenarios or the built-in sweep)")
	cmd.Flags().BoolVar(&opts.criticalBeta, "critical-beta", true, "Search the transmission rate at which capacity is first breached")
}

func init() {
	addSweepFlags(runCmd, &runOpts)
	runCmd.Flags().BoolVar(&runPrintOnly, "print-only", false, "Print rows as JSON to STDOUT instead of writing to DB")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export trajectory rows (JSONL); summaries go to <path>.summary")
	runCmd.Flags().StringVar(&runChartsDir, "charts", "", "Directory to write comparison charts to")
	runCmd.Flags().StringVar(&runChartFormat, "chart-format", string(chart.PNG), "Chart format (png or svg)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show the sweep in an interactive terminal UI")
	runCmd.Flags().StringVar(&runStart, "start", "", "Calendar date of day 0 (YYYY-MM-DD, default today)")
}
