package report

import (
	"context"
	"fmt"
	"time"

	"sirsim/internal/logging"
	"sirsim/internal/record"
	"sirsim/internal/scenario"
)

// Publish writes the trajectory and summary rows of every result, batching
// when the writer supports it. Either writer may be nil. Day 0 of every run
// is stamped at start.
func Publish(ctx context.Context, results []scenario.Result, start time.Time, tw TrajectoryWriter, sw SummaryWriter) error {
	log := logging.FromContext(ctx)
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tw != nil {
			rows := record.Rows(res, start)
			if err := writeTrajectories(tw, rows); err != nil {
				return fmt.Errorf("publish trajectory %q: %w", res.Scenario.Label, err)
			}
		}
		if sw != nil {
			if err := sw.WriteSummary(record.Summary(res, start)); err != nil {
				return fmt.Errorf("publish summary %q: %w", res.Scenario.Label, err)
			}
		}
		log.Debug("published run", "scenario", res.Scenario.Label, "run_id", res.RunID, "days", res.Days())
	}
	return nil
}

func writeTrajectories(w TrajectoryWriter, rows []record.TrajectoryRow) error {
	if bw, ok := w.(batchTrajectoryWriter); ok {
		return bw.WriteTrajectories(rows)
	}
	for _, r := range rows {
		if err := w.WriteTrajectory(r); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaries(w SummaryWriter, rows []record.SummaryRow) error {
	if bw, ok := w.(batchSummaryWriter); ok {
		return bw.WriteSummaries(rows)
	}
	for _, r := range rows {
		if err := w.WriteSummary(r); err != nil {
			return err
		}
	}
	return nil
}
