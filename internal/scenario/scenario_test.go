package scenario

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sirsim/internal/config"
	"sirsim/internal/metrics"
)

func smallConfig() *config.SimulationConfig {
	cfg := &config.SimulationConfig{
		Population:      1000,
		InitialInfected: 10,
		GammaBase:       0.1,
		Days:            80,
		BetaBaseline:    0.5,
		Capacity:        config.Float(50),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if len(sc) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(sc))
	}
	if sc[0].Label != "example" || sc[0].Description != "basic test scenario" {
		t.Fatalf("unexpected scenario %+v", sc[0])
	}
	if sc[1].GammaBase == nil || *sc[1].GammaBase != 0.2 {
		t.Fatalf("unexpected gamma %v", sc[1].GammaBase)
	}
}

func TestLoadScenarioRequiresLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scenarios:\n  - beta: 0.3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing label")
	}
}

func TestParamsInheritBaseline(t *testing.T) {
	cfg := smallConfig()
	p := Scenario{Label: "quick", GammaBase: config.Float(0.2)}.Params(cfg)
	if p.Beta != 0.5 || p.Capacity != 50 || p.GammaBase != 0.2 || p.InitialInfected != 10 {
		t.Fatalf("unexpected params %+v", p)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Scenarios = []config.ScenarioSpec{{Label: "a", Beta: config.Float(0.1)}, {Label: "b", Capacity: config.Float(10)}}
	got := FromConfig(cfg)
	if len(got) != 2 || *got[0].Beta != 0.1 || *got[1].Capacity != 10 || got[0].Capacity != nil {
		t.Fatalf("unexpected scenarios %+v", got)
	}
}

func TestBuiltInSweep(t *testing.T) {
	cfg := config.Default()
	sweep := BuiltIn(cfg)
	labels := []string{Unconstrained, Crisis, Policy, IncreasedCap, BetaSensitivity, QuickerRecovery, TradeoffCapacity, TradeoffBeta}
	if len(sweep) != len(labels) {
		t.Fatalf("expected %d scenarios, got %d", len(labels), len(sweep))
	}
	for i, l := range labels {
		if sweep[i].Label != l {
			t.Fatalf("scenario %d = %s, want %s", i, sweep[i].Label, l)
		}
		if sweep[i].Description == "" {
			t.Fatalf("scenario %s missing description", l)
		}
	}
	if c := sweep[0].Params(cfg).Capacity; c != 200000 {
		t.Fatalf("unconstrained capacity = %v", c)
	}
	if c := sweep[3].Params(cfg).Capacity; math.Abs(c-750) > 1e-9 {
		t.Fatalf("increased capacity = %v", c)
	}
	if sweep[5].Params(cfg).GammaBase != QuickGamma {
		t.Fatalf("quicker recovery gamma = %v", sweep[5].Params(cfg).GammaBase)
	}
}

func TestRunnerRunsSweepInOrder(t *testing.T) {
	cfg := config.Default()
	r := NewRunner()
	results, err := r.Run(context.Background(), cfg, BuiltIn(cfg))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	ids := map[string]bool{}
	for i, res := range results {
		if res.Scenario.Label != BuiltIn(cfg)[i].Label {
			t.Fatalf("result %d out of order: %s", i, res.Scenario.Label)
		}
		if res.RunID == "" || ids[res.RunID] {
			t.Fatalf("run id missing or duplicated: %q", res.RunID)
		}
		ids[res.RunID] = true
		if len(res.S) != cfg.Days+1 || res.Days() != cfg.Days {
			t.Fatalf("unexpected trajectory length %d", len(res.S))
		}
	}
	crisis, _ := Find(results, Crisis)
	if crisis.Metrics.TBreach == 0 {
		t.Fatalf("crisis run should breach capacity")
	}
	if crisis.MaxOverloadFactor <= 1 {
		t.Fatalf("crisis overload factor = %v", crisis.MaxOverloadFactor)
	}
	unconstrained, _ := Find(results, Unconstrained)
	if unconstrained.Metrics.TBreach != 0 {
		t.Fatalf("unconstrained run breached %d days", unconstrained.Metrics.TBreach)
	}
}

func TestRunnerSurfacesEmptySequence(t *testing.T) {
	cfg := smallConfig()
	cfg.Days = 0
	_, err := NewRunner().Run(context.Background(), cfg, []Scenario{{Label: "x"}})
	if !errors.Is(err, metrics.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestRunnerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner().Run(ctx, smallConfig(), []Scenario{{Label: "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSimulateDerivedFields(t *testing.T) {
	cfg := smallConfig()
	s := Scenario{Label: "high", Beta: config.Float(0.8)}
	res, err := Simulate(s, s.Params(cfg), 80)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if math.Abs(res.R0-8) > 1e-9 {
		t.Fatalf("R0 = %v, want 8", res.R0)
	}
	if res.MaxOverloadFactor != res.Metrics.IMax/50 {
		t.Fatalf("overload factor = %v", res.MaxOverloadFactor)
	}
	if res.IFinal != res.I[80] || res.SFinal != res.S[80] {
		t.Fatalf("final values do not match trajectory")
	}
}

func TestAnalyzeBuiltInSweep(t *testing.T) {
	cfg := config.Default()
	results, err := NewRunner().Run(context.Background(), cfg, BuiltIn(cfg))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	findings := Analyze(results, cfg, 0.18)
	got := map[string]Finding{}
	for _, f := range findings {
		got[f.ID] = f
		if f.Text == "" || f.Title == "" {
			t.Fatalf("finding %s incomplete", f.ID)
		}
	}
	for _, id := range []string{"critical_capacity", "beta_sensitivity", "quicker_recovery", "critical_r0",
		"tradeoff", "cost_of_failure", "conservation", "max_overload", "breach_share", "infections_prevented"} {
		if _, ok := got[id]; !ok {
			t.Fatalf("missing finding %s", id)
		}
	}
	unconstrained, _ := Find(results, Unconstrained)
	if got["critical_capacity"].Value != unconstrained.Metrics.IMax {
		t.Fatalf("critical capacity = %v", got["critical_capacity"].Value)
	}
}

func TestAnalyzeSkipsMissingScenarios(t *testing.T) {
	cfg := smallConfig()
	s := Scenario{Label: "custom"}
	res, err := Simulate(s, s.Params(cfg), cfg.Days)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	findings := Analyze([]Result{res}, cfg, 0)
	if len(findings) != 1 || findings[0].ID != "max_overload" {
		t.Fatalf("unexpected findings %+v", findings)
	}
}

func TestDaysBackUnderCapacity(t *testing.T) {
	r := Result{I: []float64{10, 60, 80, 55, 40}}
	r.Params.Capacity = 50
	r.Metrics.IMax, r.Metrics.TPeak = 80, 2
	d, ok := DaysBackUnderCapacity(r)
	if !ok || d != 2 {
		t.Fatalf("got %d, %v; want 2, true", d, ok)
	}
	r.I[4] = 51
	if _, ok := DaysBackUnderCapacity(r); ok {
		t.Fatalf("expected no return under capacity")
	}
}

func TestCriticalBeta(t *testing.T) {
	cfg := smallConfig()
	crit, err := CriticalBeta(cfg, 50, 0, 1e-4)
	if err != nil {
		t.Fatalf("critical beta: %v", err)
	}
	if crit <= 0.08 || crit >= 0.8 {
		t.Fatalf("critical beta %v outside (0.08, 0.8)", crit)
	}
	s := Scenario{Label: "at", Beta: config.Float(crit)}
	res, err := Simulate(s, s.Params(cfg), cfg.Days)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if res.Metrics.TBreach == 0 {
		t.Fatalf("beta %v should breach capacity", crit)
	}
}

func TestCriticalBetaNoTippingPoint(t *testing.T) {
	cfg := smallConfig()
	if _, err := CriticalBeta(cfg, 1e12, 0, 1e-3); !errors.Is(err, ErrNoTippingPoint) {
		t.Fatalf("expected ErrNoTippingPoint, got %v", err)
	}
}

func TestParamsKeepExplicitZeros(t *testing.T) {
	cfg := smallConfig()
	p := Scenario{Label: "lockdown", Beta: config.Float(0), Capacity: config.Float(0)}.Params(cfg)
	if p.Beta != 0 || p.Capacity != 0 || p.GammaBase != 0.1 {
		t.Fatalf("unexpected params %+v", p)
	}
}

func TestLoadScenarioExplicitZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.yaml")
	if err := os.WriteFile(path, []byte("scenarios:\n  - label: lockdown\n    beta: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if p := sc[0].Params(smallConfig()); p.Beta != 0 {
		t.Fatalf("beta = %v, want 0", p.Beta)
	}
}

func TestBuiltInPolicyWithZeroBeta(t *testing.T) {
	cfg := config.Default()
	cfg.BetaPolicy = config.Float(0)
	policy := BuiltIn(cfg)[2]
	if policy.Label != Policy || policy.Params(cfg).Beta != 0 {
		t.Fatalf("policy scenario %s beta = %v, want 0", policy.Label, policy.Params(cfg).Beta)
	}
}

func TestAnalyzeCrisisWithoutTransmission(t *testing.T) {
	cfg := smallConfig()
	s := Scenario{Label: Crisis, Beta: config.Float(0)}
	crisis, err := Simulate(s, s.Params(cfg), cfg.Days)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, f := range Analyze([]Result{crisis}, cfg, 0.2) {
		if math.IsInf(f.Value, 0) || math.IsNaN(f.Value) || strings.Contains(f.Text, "Inf") || strings.Contains(f.Text, "NaN") {
			t.Fatalf("finding %s not finite: %v %q", f.ID, f.Value, f.Text)
		}
		if f.ID == "breach_days_per_beta_pct" {
			t.Fatalf("unexpected policy investment finding for a run below the tipping point")
		}
	}
}
