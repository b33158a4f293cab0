package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sirsim/internal/config"
	"sirsim/internal/scenario"
)

type sweepOptions struct {
	configPath    string
	schemaPath    string
	scenariosPath string
	criticalBeta  bool
}

type sweepOutput struct {
	cfg          *config.SimulationConfig
	results      []scenario.Result
	findings     []scenario.Finding
	criticalBeta float64
}

// selectScenarios prefers an explicit scenario file, then scenarios embedded
// in the config, then the built-in sweep.
func selectScenarios(cfg *config.SimulationConfig, path string) ([]scenario.Scenario, error) {
	if path != "" {
		return scenario.Load(path)
	}
	if len(cfg.Scenarios) > 0 {
		return scenario.FromConfig(cfg), nil
	}
	return scenario.BuiltIn(cfg), nil
}

func runSweep(ctx context.Context, opts sweepOptions) (*sweepOutput, error) {
	cfg, err := config.Load(opts.configPath, opts.schemaPath)
	if err != nil {
		return nil, err
	}
	scenarios, err := selectScenarios(cfg, opts.scenariosPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := scenario.NewRunner().Run(ctx, cfg, scenarios)
	if err != nil {
		return nil, err
	}
	out := &sweepOutput{cfg: cfg, results: results}

	if opts.criticalBeta {
		b, err := scenario.CriticalBeta(cfg, cfg.CapacityValue(), 0, 1e-4)
		switch {
		case errors.Is(err, scenario.ErrNoTippingPoint):
			slog.Warn("no critical beta found", "capacity", cfg.CapacityValue())
		case err != nil:
			return nil, err
		default:
			out.criticalBeta = b
			slog.Info("critical beta", "beta", b, "r0", b/cfg.GammaBase)
		}
	}
	out.findings = scenario.Analyze(results, cfg, out.criticalBeta)
	slog.Info("sweep finished", "scenarios", len(results), "elapsed", time.Since(start))
	return out, nil
}
