package report

import (
	"time"

	"sirsim/internal/record"
)

type collectWriter struct {
	rows      []record.TrajectoryRow
	summaries []record.SummaryRow
	batches   int
	closed    int
}

func (c *collectWriter) WriteTrajectory(r record.TrajectoryRow) error {
	c.rows = append(c.rows, r)
	return nil
}

func (c *collectWriter) WriteSummary(r record.SummaryRow) error {
	c.summaries = append(c.summaries, r)
	return nil
}

func (c *collectWriter) Close() error {
	c.closed++
	return nil
}

type batchCollectWriter struct{ collectWriter }

func (b *batchCollectWriter) WriteTrajectories(rows []record.TrajectoryRow) error {
	b.batches++
	b.rows = append(b.rows, rows...)
	return nil
}

func sampleRows() []record.TrajectoryRow {
	ts := time.Unix(0, 0).UTC()
	return []record.TrajectoryRow{
		{RunID: "r1", Scenario: "crisis", Day: 0, S: 990, I: 10, GammaEff: 0.1, Timestamp: ts},
		{RunID: "r1", Scenario: "crisis", Day: 1, S: 985, I: 60, R: 1, GammaEff: 0.1, Overloaded: true, Timestamp: ts.Add(record.Day)},
	}
}

func sampleSummary() record.SummaryRow {
	return record.SummaryRow{
		RunID: "r1", Scenario: "crisis", Population: 1000, Beta: 0.5, GammaBase: 0.1, Capacity: 50,
		R0: 5, IMax: 300, TPeak: 20, TBreach: 35, RInfinity: 990, TEnd: 90, FinalNCheck: 1000,
		MaxOverloadFactor: 6, Timestamp: time.Unix(0, 0).UTC(),
	}
}
