package report

import "testing"

func TestMultiWriterUsesBatchWhenSupported(t *testing.T) {
	plain := &collectWriter{}
	batch := &batchCollectWriter{}
	mw := NewMultiWriter([]TrajectoryWriter{plain, batch}, nil)
	if err := mw.WriteTrajectories(sampleRows()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(plain.rows) != 2 || len(batch.rows) != 2 {
		t.Fatalf("rows not forwarded: %d %d", len(plain.rows), len(batch.rows))
	}
	if batch.batches != 1 {
		t.Fatalf("expected one batch call, got %d", batch.batches)
	}
}

func TestMultiWriterSummariesAndClose(t *testing.T) {
	w := &collectWriter{}
	mw := NewMultiWriter([]TrajectoryWriter{w}, []SummaryWriter{w})
	if err := mw.WriteSummary(sampleSummary()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(w.summaries) != 1 {
		t.Fatalf("summary not forwarded")
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if w.closed != 1 {
		t.Fatalf("expected a single close, got %d", w.closed)
	}
}
