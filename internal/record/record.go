// Package record flattens scenario results into rows for the output sinks.
package record

import (
	"time"

	"sirsim/internal/scenario"
)

// Day is the wall-clock length of one simulation step in exported rows.
const Day = 24 * time.Hour

// TrajectoryRow is the state of one run on one day.
type TrajectoryRow struct {
	RunID      string    `json:"run_id"`
	Scenario   string    `json:"scenario"`
	Day        int       `json:"day"`
	S          float64   `json:"s"`
	I          float64   `json:"i"`
	R          float64   `json:"r"`
	GammaEff   float64   `json:"gamma_eff"`
	Overloaded bool      `json:"overloaded"`
	Timestamp  time.Time `json:"ts"`
}

// SummaryRow holds the metrics and derived indicators of one run.
type SummaryRow struct {
	RunID             string    `json:"run_id"`
	Scenario          string    `json:"scenario"`
	Population        float64   `json:"population"`
	Beta              float64   `json:"beta"`
	GammaBase         float64   `json:"gamma_base"`
	Capacity          float64   `json:"capacity"`
	R0                float64   `json:"r0"`
	IMax              float64   `json:"i_max"`
	TPeak             int       `json:"t_peak"`
	TBreach           int       `json:"t_breach"`
	RInfinity         float64   `json:"r_infinity"`
	TEnd              int       `json:"t_end"`
	FinalNCheck       float64   `json:"final_n_check"`
	MaxOverloadFactor float64   `json:"max_overload_factor"`
	Timestamp         time.Time `json:"ts"`
}

// Rows expands a result into one row per day, day 0 included. The last day
// has no transition of its own; its gamma is the rate the capacity rule
// would apply to that day, so it agrees with Overloaded.
func Rows(res scenario.Result, start time.Time) []TrajectoryRow {
	rows := make([]TrajectoryRow, len(res.S))
	for day := range res.S {
		g, rationed := res.Params.RecoveryRate(res.I[day])
		if day < len(res.GammaEff) {
			g = res.GammaEff[day]
		}
		rows[day] = TrajectoryRow{
			RunID:      res.RunID,
			Scenario:   res.Scenario.Label,
			Day:        day,
			S:          res.S[day],
			I:          res.I[day],
			R:          res.R[day],
			GammaEff:   g,
			Overloaded: rationed,
			Timestamp:  start.Add(time.Duration(day) * Day),
		}
	}
	return rows
}

// Summary builds the summary row of a result, stamped at the end of its horizon.
func Summary(res scenario.Result, start time.Time) SummaryRow {
	m := res.Metrics
	return SummaryRow{
		RunID:             res.RunID,
		Scenario:          res.Scenario.Label,
		Population:        res.Params.Population,
		Beta:              res.Params.Beta,
		GammaBase:         res.Params.GammaBase,
		Capacity:          res.Params.Capacity,
		R0:                res.R0,
		IMax:              m.IMax,
		TPeak:             m.TPeak,
		TBreach:           m.TBreach,
		RInfinity:         m.RInfinity,
		TEnd:              m.TEnd,
		FinalNCheck:       m.FinalNCheck,
		MaxOverloadFactor: res.MaxOverloadFactor,
		Timestamp:         start.Add(time.Duration(res.Days()) * Day),
	}
}
