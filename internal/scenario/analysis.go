package scenario

import (
	"errors"
	"fmt"
	"math"

	"sirsim/internal/config"
	"sirsim/internal/metrics"
)

// ErrNoTippingPoint is returned when no beta in the searched range breaches capacity.
var ErrNoTippingPoint = errors.New("scenario: capacity never breached in beta range")

// Finding is one derived indicator of a sweep.
type Finding struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// Analyze derives comparative indicators from a sweep. Indicators whose
// scenarios are missing from results are omitted. criticalBeta <= 0 skips
// the indicators that depend on the tipping point.
func Analyze(results []Result, cfg *config.SimulationConfig, criticalBeta float64) []Finding {
	var out []Finding
	add := func(id, title string, v float64, format string, args ...any) {
		out = append(out, Finding{ID: id, Title: title, Value: v, Text: fmt.Sprintf(format, args...)})
	}

	unconstrained, hasU := Find(results, Unconstrained)
	crisis, hasC := Find(results, Crisis)

	if hasU {
		add("critical_capacity", "Critical capacity", unconstrained.Metrics.IMax,
			"Keeping the peak below capacity needs C of at least %.0f (configured C is %.0f).",
			unconstrained.Metrics.IMax, cfg.CapacityValue())
	}

	if sens, ok := Find(results, BetaSensitivity); ok && hasC {
		base, up := crisis.Metrics.TBreach, sens.Metrics.TBreach
		pct := 0.0
		if base > 0 {
			pct = float64(up-base) / float64(base) * 100
		}
		add("beta_sensitivity", "Sensitivity of beta", pct,
			"A 5%% increase in beta moved T_breach from %d to %d days (%.1f%%).", base, up, pct)
	}

	if quick, ok := Find(results, QuickerRecovery); ok && hasC {
		pct := pctChange(crisis.Metrics.RInfinity, quick.Metrics.RInfinity)
		add("quicker_recovery", "Impact of quicker recovery", pct,
			"Shortening the infectious period (R0 %.2f to %.2f) changed the attack rate by %.2f%% and the peak from %.0f to %.0f.",
			crisis.R0, quick.R0, pct, crisis.Metrics.IMax, quick.Metrics.IMax)
	}

	if criticalBeta > 0 && hasC && crisis.Params.GammaBase > 0 {
		critR0 := criticalBeta / crisis.Params.GammaBase
		if crisis.R0 <= critR0 {
			add("critical_r0", "Tipping point", critR0,
				"Capacity is breached above beta %.4f (R0 %.2f); the crisis run (R0 %.2f) already stays below it.",
				criticalBeta, critR0, crisis.R0)
		} else {
			reduction := (crisis.R0 - critR0) / crisis.R0 * 100
			add("critical_r0", "Tipping point", critR0,
				"Capacity is breached above beta %.4f (R0 %.2f); the crisis run (R0 %.2f) needs a %.1f%% reduction in beta to stay below it.",
				criticalBeta, critR0, crisis.R0, reduction)
			perPct := float64(crisis.Metrics.TBreach) / reduction
			add("breach_days_per_beta_pct", "Policy investment", perPct,
				"Each 1%% reduction in beta avoids %.2f days of overload.", perPct)
		}
	}

	capA, hasA := Find(results, TradeoffCapacity)
	betaB, hasB := Find(results, TradeoffBeta)
	if hasA && hasB {
		better := "increasing capacity"
		v := capA.MaxOverloadFactor
		if betaB.MaxOverloadFactor < capA.MaxOverloadFactor {
			better, v = "reducing beta", betaB.MaxOverloadFactor
		}
		add("tradeoff", "Resource allocation trade-off", v,
			"Capacity +20%% peaks at %.2f x C, beta -10%% at %.2f x C; %s mitigates the overload better.",
			capA.MaxOverloadFactor, betaB.MaxOverloadFactor, better)
	}

	if hasU && hasC {
		pct := pctChange(unconstrained.Metrics.RInfinity, crisis.Metrics.RInfinity)
		add("cost_of_failure", "Attack rate vs capacity", pct,
			"The constrained run has a %.2f%% different attack rate than the unconstrained run.", pct)
	}

	if hasC {
		drift := metrics.Drift(crisis.Metrics, crisis.Params.Population)
		add("conservation", "Mass conservation", crisis.Metrics.FinalNCheck,
			"Final S+I+R of the crisis run is %.2f against N=%.0f (relative drift %.2e).",
			crisis.Metrics.FinalNCheck, crisis.Params.Population, drift)
	}

	if len(results) > 0 {
		top := results[0]
		for _, r := range results[1:] {
			if r.MaxOverloadFactor > top.MaxOverloadFactor {
				top = r
			}
		}
		add("max_overload", "Maximum overload factor", top.MaxOverloadFactor,
			"The highest peak-to-capacity ratio is %.2f (%s).", top.MaxOverloadFactor, top.Scenario.Label)
	}

	if hasC && cfg.SchoolYearDays > 0 {
		share := float64(crisis.Metrics.TBreach) / float64(cfg.SchoolYearDays)
		add("breach_share", "Duration of overload", share,
			"The crisis overloaded capacity for %d days, %.1f%% of a %d day school year.",
			crisis.Metrics.TBreach, share*100, cfg.SchoolYearDays)
	}

	if policy, ok := Find(results, Policy); ok && hasC {
		prevented := crisis.Metrics.RInfinity - policy.Metrics.RInfinity
		add("infections_prevented", "Preventative success", prevented,
			"The policy run prevented about %.0f infections compared to the crisis.", prevented)
	}

	if hasC {
		if d, ok := DaysBackUnderCapacity(crisis); ok {
			add("post_crisis", "Post-crisis speed", float64(d),
				"After the peak on day %d, infections took %d days to fall back under capacity.",
				crisis.Metrics.TPeak, d)
		} else if crisis.Metrics.IMax > crisis.Params.Capacity {
			add("post_crisis", "Post-crisis speed", -1,
				"Infections were still above capacity at the end of the %d day horizon.", crisis.Days())
		}
	}
	return out
}

// DaysBackUnderCapacity counts days from the peak until I first drops to or
// below capacity. ok is false if the peak never exceeded capacity or I stays
// above it until the horizon.
func DaysBackUnderCapacity(r Result) (int, bool) {
	c := r.Params.Capacity
	if r.Metrics.IMax <= c {
		return 0, false
	}
	for day := r.Metrics.TPeak; day < len(r.I); day++ {
		if r.I[day] <= c {
			return day - r.Metrics.TPeak, true
		}
	}
	return 0, false
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

// CriticalBeta bisects beta in [0, hi] for the smallest transmission rate at
// which capacity is breached within cfg.Days, to within tol. hi <= 0 starts
// from the baseline beta and doubles until a breach is found.
func CriticalBeta(cfg *config.SimulationConfig, capacity, hi, tol float64) (float64, error) {
	if tol <= 0 {
		tol = 1e-4
	}
	base := Scenario{Label: "critical-beta", Capacity: config.Float(capacity)}
	breaches := func(beta float64) (bool, error) {
		p := base.Params(cfg)
		p.Beta = beta
		res, err := Simulate(base, p, cfg.Days)
		if err != nil {
			return false, err
		}
		return res.Metrics.TBreach > 0, nil
	}

	if hi <= 0 {
		hi = math.Max(cfg.BetaBaseline, tol)
	}
	for range 32 {
		ok, err := breaches(hi)
		if err != nil {
			return 0, err
		}
		if ok {
			break
		}
		hi *= 2
		if hi > 1e6 {
			return 0, ErrNoTippingPoint
		}
	}
	if ok, err := breaches(hi); err != nil {
		return 0, err
	} else if !ok {
		return 0, ErrNoTippingPoint
	}
	if ok, err := breaches(0); err != nil {
		return 0, err
	} else if ok {
		// Seed alone exceeds capacity.
		return 0, nil
	}

	lo := 0.0
	for hi-lo > tol {
		mid := (lo + hi) / 2
		ok, err := breaches(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
