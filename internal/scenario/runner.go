package scenario

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sirsim/internal/config"
	"sirsim/internal/logging"
	"sirsim/internal/metrics"
	"sirsim/internal/sir"
)

// Result is a completed scenario run with its trajectory and derived indicators.
type Result struct {
	RunID             string          `json:"run_id"`
	Scenario          Scenario        `json:"scenario"`
	Params            sir.Params      `json:"params"`
	S                 []float64       `json:"s"`
	I                 []float64       `json:"i"`
	R                 []float64       `json:"r"`
	GammaEff          []float64       `json:"gamma_eff"`
	Metrics           metrics.Metrics `json:"metrics"`
	R0                float64         `json:"r0"`
	MaxOverloadFactor float64         `json:"max_overload_factor"`
	SFinal            float64         `json:"s_final"`
	IFinal            float64         `json:"i_final"`
}

// Days returns the number of simulated transitions.
func (r Result) Days() int { return len(r.GammaEff) }

// Simulate runs one scenario for days transitions.
func Simulate(s Scenario, p sir.Params, days int) (Result, error) {
	eng, err := sir.New(p)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", s.Label, err)
	}
	S, I, R := eng.Advance(days)
	m, err := metrics.Extract(eng)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", s.Label, err)
	}
	params, last := eng.Params(), eng.Last()
	return Result{
		Scenario:          s,
		Params:            params,
		S:                 S,
		I:                 I,
		R:                 R,
		GammaEff:          eng.GammaEffective(),
		Metrics:           m,
		R0:                params.R0(),
		MaxOverloadFactor: m.IMax / math.Max(1, params.Capacity),
		SFinal:            last.S,
		IFinal:            last.I,
	}, nil
}

// Runner executes scenario sweeps. Each run owns its own engine, so runs
// proceed in parallel without shared state.
type Runner struct {
	Parallelism int
	NewID       func() string
}

// NewRunner returns a Runner bounded by GOMAXPROCS.
func NewRunner() *Runner {
	return &Runner{
		Parallelism: runtime.GOMAXPROCS(0),
		NewID:       func() string { return uuid.NewString() },
	}
}

// Run simulates every scenario for cfg.Days and returns results in input order.
// Cancellation is observed between runs; a started run always completes.
func (r *Runner) Run(ctx context.Context, cfg *config.SimulationConfig, scenarios []Scenario) ([]Result, error) {
	log := logging.FromContext(ctx)
	results := make([]Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	if r.Parallelism > 0 {
		g.SetLimit(r.Parallelism)
	}
	for idx, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := Simulate(sc, sc.Params(cfg), cfg.Days)
			if err != nil {
				return err
			}
			res.RunID = r.NewID()
			results[idx] = res
			log.Debug("scenario complete",
				"scenario", sc.Label,
				"run_id", res.RunID,
				"t_breach", res.Metrics.TBreach,
				"i_max", res.Metrics.IMax,
				"elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("sweep complete", "scenarios", len(results), "days", cfg.Days)
	return results, nil
}

// Find returns the result with the given label.
func Find(results []Result, label string) (Result, bool) {
	for _, r := range results {
		if r.Scenario.Label == label {
			return r, true
		}
	}
	return Result{}, false
}
