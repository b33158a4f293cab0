package scenario

import "sirsim/internal/config"

// Labels of the built-in sweep. Analyze looks results up by these.
const (
	Unconstrained    = "1. Unconstrained Baseline"
	Crisis           = "2. Constrained Baseline (Crisis)"
	Policy           = "3. Policy Intervention (Success)"
	IncreasedCap     = "4. Increased Capacity (+50%)"
	BetaSensitivity  = "5. Beta Sensitivity (+5%)"
	QuickerRecovery  = "6. Quicker Recovery (D=10)"
	TradeoffCapacity = "7. Trade-off Capacity (+20%)"
	TradeoffBeta     = "8. Trade-off Beta (-10%)"
)

// QuickGamma is the recovery rate of a 10 day infectious period.
const QuickGamma = 1.0 / 10.0

// BuiltIn returns the reference sweep derived from cfg, in presentation order.
func BuiltIn(cfg *config.SimulationConfig) []Scenario {
	c := cfg.CapacityValue()
	b := cfg.BetaBaseline
	return []Scenario{
		{
			Label:       Unconstrained,
			Description: "Baseline transmission with capacity far above the population; benchmark for the capacity cost.",
			Beta:        config.Float(b),
			Capacity:    config.Float(cfg.Population * 2),
		},
		{
			Label:       Crisis,
			Description: "Baseline transmission against the configured capacity; expected to breach.",
			Beta:        config.Float(b),
			Capacity:    config.Float(c),
		},
		{
			Label:       Policy,
			Description: "Policy transmission rate against the configured capacity.",
			Beta:        config.Float(cfg.PolicyBeta()),
			Capacity:    config.Float(c),
		},
		{
			Label:       IncreasedCap,
			Description: "Capacity raised by half.",
			Beta:        config.Float(b),
			Capacity:    config.Float(c * 1.5),
		},
		{
			Label:       BetaSensitivity,
			Description: "Transmission raised by 5%.",
			Beta:        config.Float(b * 1.05),
			Capacity:    config.Float(c),
		},
		{
			Label:       QuickerRecovery,
			Description: "Infectious period shortened from 14 to 10 days.",
			Beta:        config.Float(b),
			Capacity:    config.Float(c),
			GammaBase:   config.Float(QuickGamma),
		},
		{
			Label:       TradeoffCapacity,
			Description: "Allocation strategy A: capacity raised by 20%.",
			Beta:        config.Float(b),
			Capacity:    config.Float(c * 1.2),
		},
		{
			Label:       TradeoffBeta,
			Description: "Allocation strategy B: transmission reduced by 10%.",
			Beta:        config.Float(b * 0.9),
			Capacity:    config.Float(c),
		},
	}
}
