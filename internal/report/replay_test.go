package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReplayLog(t *testing.T) {
	rows := sampleRows()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	cw := &collectWriter{}
	n, err := ReplayLog(&buf, cw, 0)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != len(rows) || len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].Day != r.Day || cw.rows[i].I != r.I {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogInvalidJSON(t *testing.T) {
	cw := &collectWriter{}
	if _, err := ReplayLog(strings.NewReader("{not json"), cw, 0); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	fw, err := NewFileWriter(path, "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.WriteTrajectories(sampleRows()); err != nil {
		t.Fatalf("write: %v", err)
	}
	fw.Close()

	cw := &collectWriter{}
	if _, err := ReplayLogFile(path, cw, 0); err != nil {
		t.Fatalf("ReplayLogFile: %v", err)
	}
	if len(cw.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(cw.rows))
	}
	if _, err := ReplayLogFile(filepath.Join(t.TempDir(), "missing"), cw, 0); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
