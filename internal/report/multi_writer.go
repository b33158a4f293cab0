package report

import (
	"errors"
	"io"

	"sirsim/internal/record"
)

// MultiWriter fans rows out to multiple writers.
type MultiWriter struct {
	trajWriters []TrajectoryWriter
	sumWriters  []SummaryWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TrajectoryWriter, sws []SummaryWriter) *MultiWriter {
	return &MultiWriter{trajWriters: tws, sumWriters: sws}
}

// WriteTrajectory sends a trajectory row to all writers.
func (mw *MultiWriter) WriteTrajectory(row record.TrajectoryRow) error {
	for _, w := range mw.trajWriters {
		if err := w.WriteTrajectory(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrajectories sends multiple rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteTrajectories(rows []record.TrajectoryRow) error {
	for _, w := range mw.trajWriters {
		if err := writeTrajectories(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary sends a summary row to all summary writers.
func (mw *MultiWriter) WriteSummary(row record.SummaryRow) error {
	for _, w := range mw.sumWriters {
		if err := w.WriteSummary(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaries sends multiple summaries to all summary writers.
func (mw *MultiWriter) WriteSummaries(rows []record.SummaryRow) error {
	for _, w := range mw.sumWriters {
		if err := writeSummaries(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer implementing io.Closer once, even if it is
// registered for both row kinds.
func (mw *MultiWriter) Close() error {
	seen := make(map[io.Closer]bool)
	var errs []error
	closeOnce := func(v any) {
		c, ok := v.(io.Closer)
		if !ok || seen[c] {
			return
		}
		seen[c] = true
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, w := range mw.trajWriters {
		closeOnce(w)
	}
	for _, w := range mw.sumWriters {
		closeOnce(w)
	}
	return errors.Join(errs...)
}
