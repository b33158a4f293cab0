package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sirsim/internal/record"
)

// JSONStdoutWriter prints rows as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteTrajectory outputs a trajectory row in JSON format.
func (w *JSONStdoutWriter) WriteTrajectory(row record.TrajectoryRow) error {
	return w.emit(row)
}

// WriteSummary outputs a summary row in JSON format.
func (w *JSONStdoutWriter) WriteSummary(row record.SummaryRow) error {
	return w.emit(row)
}
