package record

import (
	"math"
	"testing"
	"time"

	"sirsim/internal/metrics"
	"sirsim/internal/scenario"
	"sirsim/internal/sir"
)

func sampleResult() scenario.Result {
	return scenario.Result{
		RunID:    "run-1",
		Scenario: scenario.Scenario{Label: "crisis"},
		Params:   sir.Params{Population: 100, InitialInfected: 10, Beta: 0.5, GammaBase: 0.1, Capacity: 15},
		S:        []float64{90, 85, 80},
		I:        []float64{10, 16, 19},
		R:        []float64{0, 1, 2},
		GammaEff: []float64{0.1, 0.09375},
		Metrics:  metrics.Metrics{IMax: 19, TPeak: 2, TBreach: 1, RInfinity: 2, TEnd: 2, FinalNCheck: 101},
		R0:       5,
	}
}

func TestRows(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := Rows(sampleResult(), start)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Overloaded || !rows[1].Overloaded || !rows[2].Overloaded {
		t.Fatalf("unexpected overload flags: %+v", rows)
	}
	if rows[1].GammaEff != 0.09375 {
		t.Fatalf("unexpected gamma: %v", rows[1].GammaEff)
	}
	// 0.1 * 15 / 19
	if want := 1.5 / 19; math.Abs(rows[2].GammaEff-want) > 1e-12 {
		t.Fatalf("last day gamma = %v, want %v", rows[2].GammaEff, want)
	}
	if !rows[2].Timestamp.Equal(start.Add(48 * time.Hour)) {
		t.Fatalf("unexpected timestamp %v", rows[2].Timestamp)
	}
	if rows[2].RunID != "run-1" || rows[2].Scenario != "crisis" || rows[2].Day != 2 {
		t.Fatalf("unexpected row %+v", rows[2])
	}
}

func TestRowsWithoutTransitions(t *testing.T) {
	res := sampleResult()
	res.S, res.I, res.R, res.GammaEff = res.S[:1], res.I[:1], res.R[:1], nil
	rows := Rows(res, time.Unix(0, 0))
	if len(rows) != 1 || rows[0].GammaEff != 0.1 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestRowsLastDayAgreesWithOverload(t *testing.T) {
	res := sampleResult()
	res.I[2] = 12
	rows := Rows(res, time.Unix(0, 0))
	last := rows[2]
	if last.Overloaded || last.GammaEff != 0.1 {
		t.Fatalf("last row under capacity should use the base rate: %+v", last)
	}

	res = sampleResult()
	res.I = []float64{10, 12, 30}
	res.GammaEff = []float64{0.1, 0.1}
	last = Rows(res, time.Unix(0, 0))[2]
	if !last.Overloaded || math.Abs(last.GammaEff-0.05) > 1e-12 {
		t.Fatalf("last row above capacity should be rationed: %+v", last)
	}
}

func TestSummary(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	s := Summary(sampleResult(), start)
	if s.IMax != 19 || s.TBreach != 1 || s.Capacity != 15 || s.R0 != 5 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if !s.Timestamp.Equal(start.Add(2 * Day)) {
		t.Fatalf("unexpected timestamp %v", s.Timestamp)
	}
}
