package report

import "sirsim/internal/record"

// TrajectoryWriter handles per-day trajectory rows.
type TrajectoryWriter interface {
	WriteTrajectory(record.TrajectoryRow) error
}

// SummaryWriter handles per-run summary rows.
type SummaryWriter interface {
	WriteSummary(record.SummaryRow) error
}

// Optional: writers may support batch mode.
type batchTrajectoryWriter interface {
	WriteTrajectories([]record.TrajectoryRow) error
}

type batchSummaryWriter interface {
	WriteSummaries([]record.SummaryRow) error
}
