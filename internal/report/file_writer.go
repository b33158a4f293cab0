package report

import (
	"encoding/json"
	"os"

	"sirsim/internal/record"
)

// FileWriter writes trajectory and summary rows to JSONL files.
type FileWriter struct {
	trajFile *os.File
	sumFile  *os.File
	trajEnc  *json.Encoder
	sumEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. summaryPath may be empty to skip summaries.
func NewFileWriter(trajectoryPath, summaryPath string) (*FileWriter, error) {
	tf, err := os.Create(trajectoryPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{trajFile: tf, trajEnc: json.NewEncoder(tf)}
	if summaryPath != "" {
		sf, err := os.Create(summaryPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.sumFile = sf
		fw.sumEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// WriteTrajectory logs a single trajectory row.
func (f *FileWriter) WriteTrajectory(row record.TrajectoryRow) error {
	return f.trajEnc.Encode(row)
}

// WriteTrajectories logs multiple trajectory rows.
func (f *FileWriter) WriteTrajectories(rows []record.TrajectoryRow) error {
	for _, r := range rows {
		if err := f.WriteTrajectory(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary logs a summary row, if enabled.
func (f *FileWriter) WriteSummary(row record.SummaryRow) error {
	if f.sumEnc == nil {
		return nil
	}
	return f.sumEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.trajFile != nil {
		if e := f.trajFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.sumFile != nil {
		if e := f.sumFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
