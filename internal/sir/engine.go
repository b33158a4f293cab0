// Package sir implements a discrete-time SIR recurrence whose recovery rate
// is rationed once the infectious count exceeds a healthcare capacity.
//
// An Engine owns its sequences exclusively and performs no locking; run
// independent engines in parallel instead of sharing one.
package sir

import (
	"math"
	"slices"
)

// Params are the immutable inputs of one run.
type Params struct {
	Population      float64 `json:"population" yaml:"population"`
	InitialInfected float64 `json:"initial_infected" yaml:"initial_infected"`
	Beta            float64 `json:"beta" yaml:"beta"`
	GammaBase       float64 `json:"gamma_base" yaml:"gamma_base"`
	Capacity        float64 `json:"capacity" yaml:"capacity"`
}

// R0 returns the basic reproduction number beta / gamma_base.
func (p Params) R0() float64 {
	if p.GammaBase == 0 {
		return math.Inf(1)
	}
	return p.Beta / p.GammaBase
}

// Validate checks the parameter domain.
func (p Params) Validate() error {
	if bad(p.Population) || p.Population <= 0 {
		return &ParameterError{Field: "population", Value: p.Population, Reason: "must be > 0"}
	}
	if bad(p.InitialInfected) || p.InitialInfected < 0 {
		return &ParameterError{Field: "initial_infected", Value: p.InitialInfected, Reason: "must be >= 0"}
	}
	if p.InitialInfected > p.Population {
		return &ParameterError{Field: "initial_infected", Value: p.InitialInfected, Reason: "exceeds population"}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"beta", p.Beta}, {"gamma_base", p.GammaBase}, {"capacity", p.Capacity}} {
		if bad(f.v) || f.v < 0 {
			return &ParameterError{Field: f.name, Value: f.v, Reason: "must be a non-negative number"}
		}
	}
	return nil
}

// RecoveryRate returns the recovery rate applied to a day with i infectious
// and whether it was rationed by capacity.
func (p Params) RecoveryRate(i float64) (gamma float64, rationed bool) {
	if i > p.Capacity {
		// i > capacity >= 0, so i is strictly positive here.
		return p.GammaBase * (p.Capacity / i), true
	}
	return p.GammaBase, false
}

func bad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// State is one day's compartment sizes.
type State struct {
	Day int     `json:"day"`
	S   float64 `json:"s"`
	I   float64 `json:"i"`
	R   float64 `json:"r"`
}

// Engine advances the recurrence one day at a time. Sequences are append-only.
type Engine struct {
	params     Params
	s, i, r    []float64
	gammaEff   []float64
	breachDays int
}

// New validates p and seeds day 0 with S = N - I0, I = I0, R = 0.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		params: p,
		s:      []float64{p.Population - p.InitialInfected},
		i:      []float64{p.InitialInfected},
		r:      []float64{0},
	}, nil
}

// Advance runs days more transitions and returns the full accumulated
// sequences. Negative values are treated as zero.
func (e *Engine) Advance(days int) (s, i, r []float64) {
	if days > 0 {
		e.s = slices.Grow(e.s, days)
		e.i = slices.Grow(e.i, days)
		e.r = slices.Grow(e.r, days)
		e.gammaEff = slices.Grow(e.gammaEff, days)
		for range days {
			e.step()
		}
	}
	return e.Susceptible(), e.Infectious(), e.Recovered()
}

func (e *Engine) step() {
	last := len(e.s) - 1
	st, it, rt := e.s[last], e.i[last], e.r[last]
	p := e.params

	gamma, rationed := p.RecoveryRate(it)
	if rationed {
		e.breachDays++
	}

	newInfections := p.Beta * st * it / p.Population
	newRecoveries := gamma * it

	e.s = append(e.s, math.Max(0, st-newInfections))
	e.i = append(e.i, math.Max(0, it+newInfections-newRecoveries))
	e.r = append(e.r, math.Max(0, rt+newRecoveries))
	e.gammaEff = append(e.gammaEff, gamma)
}

// Params returns the run parameters.
func (e *Engine) Params() Params { return e.params }

// Days returns the number of elapsed transitions.
func (e *Engine) Days() int { return len(e.gammaEff) }

// BreachDays returns how many transitions used the rationed recovery rate.
func (e *Engine) BreachDays() int { return e.breachDays }

// Susceptible returns a copy of S for days 0..Days().
func (e *Engine) Susceptible() []float64 { return slices.Clone(e.s) }

// Infectious returns a copy of I for days 0..Days().
func (e *Engine) Infectious() []float64 { return slices.Clone(e.i) }

// Recovered returns a copy of R for days 0..Days().
func (e *Engine) Recovered() []float64 { return slices.Clone(e.r) }

// GammaEffective returns a copy of the recovery rate used for each transition.
func (e *Engine) GammaEffective() []float64 { return slices.Clone(e.gammaEff) }

// Snapshot returns the compartments on the given day.
func (e *Engine) Snapshot(day int) (State, bool) {
	if day < 0 || day >= len(e.s) {
		return State{}, false
	}
	return State{Day: day, S: e.s[day], I: e.i[day], R: e.r[day]}, true
}

// Last returns the most recent state.
func (e *Engine) Last() State {
	st, _ := e.Snapshot(len(e.s) - 1)
	return st
}
