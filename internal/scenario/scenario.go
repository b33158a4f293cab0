package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sirsim/internal/config"
	"sirsim/internal/sir"
)

// Scenario is one named parameter variation of a sweep. Nil fields inherit
// the baseline values of the simulation config.
type Scenario struct {
	Label           string   `yaml:"label" json:"label"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	Beta            *float64 `yaml:"beta,omitempty" json:"beta,omitempty"`
	Capacity        *float64 `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	GammaBase       *float64 `yaml:"gamma_base,omitempty" json:"gamma_base,omitempty"`
	InitialInfected *float64 `yaml:"initial_infected,omitempty" json:"initial_infected,omitempty"`
}

type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load reads a YAML scenario list from disk.
func Load(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	for i, s := range f.Scenarios {
		if s.Label == "" {
			return nil, fmt.Errorf("parse scenarios: entry %d has no label", i)
		}
	}
	return f.Scenarios, nil
}

// FromConfig converts the scenarios embedded in a simulation config.
func FromConfig(cfg *config.SimulationConfig) []Scenario {
	out := make([]Scenario, 0, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		out = append(out, Scenario{
			Label:           s.Label,
			Description:     s.Description,
			Beta:            s.Beta,
			Capacity:        s.Capacity,
			GammaBase:       s.GammaBase,
			InitialInfected: s.InitialInfected,
		})
	}
	return out
}

// Params resolves s against the baseline of cfg.
func (s Scenario) Params(cfg *config.SimulationConfig) sir.Params {
	p := cfg.BaselineParams()
	override(&p.Beta, s.Beta)
	override(&p.Capacity, s.Capacity)
	override(&p.GammaBase, s.GammaBase)
	override(&p.InitialInfected, s.InitialInfected)
	return p
}

func override(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}
