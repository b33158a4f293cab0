package report

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"sirsim/internal/record"
)

// ReplayLog replays trajectory rows from r to writer. Rows are one simulated
// day apart, so speed compresses that gap: 86400 plays one day per second.
// If speed <= 0, no artificial delay is inserted.
func ReplayLog(r io.Reader, writer TrajectoryWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var prev time.Time
	n := 0
	for {
		var row record.TrajectoryRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if !prev.IsZero() && speed > 0 {
			diff := time.Duration(float64(row.Timestamp.Sub(prev)) / speed)
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteTrajectory(row); err != nil {
			return n, err
		}
		n++
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its trajectory rows.
func ReplayLogFile(path string, writer TrajectoryWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
