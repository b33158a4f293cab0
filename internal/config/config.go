// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"sirsim/internal/sir"
)

// DefaultCapacityFraction is the share of the population that can be treated
// when neither capacity nor capacity_fraction is configured.
const DefaultCapacityFraction = 0.005

// ScenarioSpec overrides the baseline parameters for one named run.
// Absent fields inherit from the enclosing SimulationConfig; an explicit 0
// is kept.
type ScenarioSpec struct {
	Label           string   `yaml:"label"`
	Description     string   `yaml:"description,omitempty"`
	Beta            *float64 `yaml:"beta,omitempty"`
	Capacity        *float64 `yaml:"capacity,omitempty"`
	GammaBase       *float64 `yaml:"gamma_base,omitempty"`
	InitialInfected *float64 `yaml:"initial_infected,omitempty"`
}

// SimulationConfig is the root configuration shared by every scenario of a sweep.
type SimulationConfig struct {
	Population       float64        `yaml:"population"`
	InitialInfected  float64        `yaml:"initial_infected"`
	GammaBase        float64        `yaml:"gamma_base"`
	Days             int            `yaml:"days"`
	BetaBaseline     float64        `yaml:"beta_baseline"`
	BetaPolicy       *float64       `yaml:"beta_policy,omitempty"`
	CapacityFraction *float64       `yaml:"capacity_fraction,omitempty"`
	Capacity         *float64       `yaml:"capacity,omitempty"`
	SchoolYearDays   int            `yaml:"school_year_days,omitempty"`
	Scenarios        []ScenarioSpec `yaml:"scenarios"`
}

// Default returns the reference parameter set: a city of 100k, 14 day
// infectious period and capacity at 0.5% of the population.
func Default() *SimulationConfig {
	cfg := &SimulationConfig{
		Population:       100000,
		InitialInfected:  100,
		GammaBase:        1.0 / 14.0,
		Days:             150,
		BetaBaseline:     0.3,
		CapacityFraction: Float(DefaultCapacityFraction),
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load loads YAML config and validates it against a CUE schema
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("loaded configuration", "path", configPath, "population", cfg.Population, "days", cfg.Days, "scenarios", len(cfg.Scenarios))
	return &cfg, nil
}

// Float returns a pointer to v for setting optional fields in code.
func Float(v float64) *float64 { return &v }

// ApplyDefaults fills optional fields that were not set. Explicit zeros are kept.
func (c *SimulationConfig) ApplyDefaults() {
	if c.BetaPolicy == nil {
		c.BetaPolicy = Float(c.BetaBaseline * 0.5)
	}
	if c.CapacityFraction == nil && c.Capacity == nil {
		c.CapacityFraction = Float(DefaultCapacityFraction)
	}
	if c.SchoolYearDays == 0 {
		c.SchoolYearDays = 270
	}
}

// PolicyBeta is the transmission rate of the policy scenario.
func (c *SimulationConfig) PolicyBeta() float64 {
	if c.BetaPolicy != nil {
		return *c.BetaPolicy
	}
	return c.BetaBaseline * 0.5
}

func (c *SimulationConfig) applyEnv() error {
	if v := os.Getenv("SIRSIM_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return fmt.Errorf("invalid SIRSIM_DAYS %q", v)
		}
		c.Days = days
	}
	return nil
}

// Validate performs the checks the schema cannot express.
func (c *SimulationConfig) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("days must be >= 0, got %d", c.Days)
	}
	if err := c.BaselineParams().Validate(); err != nil {
		return err
	}
	if v := c.PolicyBeta(); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("beta_policy must be a non-negative number, got %v", v)
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.Label == "" {
			return fmt.Errorf("scenario without label")
		}
		if seen[s.Label] {
			return fmt.Errorf("duplicate scenario label %q", s.Label)
		}
		seen[s.Label] = true
	}
	return nil
}

// CapacityValue is the absolute capacity: Capacity when set, otherwise
// Population * CapacityFraction.
func (c *SimulationConfig) CapacityValue() float64 {
	switch {
	case c.Capacity != nil:
		return *c.Capacity
	case c.CapacityFraction != nil:
		return c.Population * *c.CapacityFraction
	}
	return c.Population * DefaultCapacityFraction
}

// BaselineParams returns the crisis baseline: baseline beta at the configured capacity.
func (c *SimulationConfig) BaselineParams() sir.Params {
	return sir.Params{
		Population:      c.Population,
		InitialInfected: c.InitialInfected,
		Beta:            c.BetaBaseline,
		GammaBase:       c.GammaBase,
		Capacity:        c.CapacityValue(),
	}
}
