package main

import (
	"log/slog"
	"os"

	"sirsim/internal/report"
)

// newWriters sets up trajectory and summary writers based on flags and env vars.
// Either writer may be nil when nothing would consume the rows. The returned
// cleanup function closes any resources.
func newWriters(printOnly bool, logFile string) (report.TrajectoryWriter, report.SummaryWriter, func(), error) {
	cleanup := func() {}

	tw, sw, err := baseWriters(printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return tw, sw, cleanup, nil
	}

	fw, err := report.NewFileWriter(logFile, logFile+".summary")
	if err != nil {
		return nil, nil, nil, err
	}
	tws := []report.TrajectoryWriter{fw}
	sws := []report.SummaryWriter{fw}
	if tw != nil {
		tws = append(tws, tw)
	}
	if sw != nil {
		sws = append(sws, sw)
	}
	mw := report.NewMultiWriter(tws, sws)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying sink: JSON on STDOUT when printOnly,
// GreptimeDB when GREPTIMEDB_ENDPOINT is set, nothing otherwise.
func baseWriters(printOnly bool) (report.TrajectoryWriter, report.SummaryWriter, error) {
	if printOnly {
		w := report.NewJSONStdoutWriter()
		return w, w, nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if endpoint == "" {
		slog.Debug("GREPTIMEDB_ENDPOINT not set, rows are not exported")
		return nil, nil, nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := report.NewGreptimeDBWriter(endpoint, database, os.Getenv("SIR_TRAJECTORY_TABLE"), os.Getenv("SIR_SUMMARY_TABLE"))
	if err != nil {
		return nil, nil, err
	}
	slog.Info("exporting rows to GreptimeDB", "endpoint", endpoint, "database", database)
	return w, w, nil
}

// newTrajectoryWriter creates a trajectory writer for replays, falling back
// to STDOUT when no database is configured.
func newTrajectoryWriter(printOnly bool) (report.TrajectoryWriter, error) {
	if os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		printOnly = true
	}
	tw, _, err := baseWriters(printOnly)
	return tw, err
}
