// Package metrics derives scalar indicators from a completed SIR trajectory.
package metrics

import (
	"errors"
	"math"
)

// ErrEmptySequence is returned when no simulated day has elapsed.
var ErrEmptySequence = errors.New("metrics: trajectory has no elapsed days")

// Trajectory is the read access Extract needs. *sir.Engine satisfies it.
type Trajectory interface {
	Susceptible() []float64
	Infectious() []float64
	Recovered() []float64
	BreachDays() int
	Days() int
}

// Metrics summarises one run.
type Metrics struct {
	IMax        float64 `json:"i_max" yaml:"i_max"`
	TPeak       int     `json:"t_peak" yaml:"t_peak"`
	TBreach     int     `json:"t_breach" yaml:"t_breach"`
	RInfinity   float64 `json:"r_infinity" yaml:"r_infinity"`
	TEnd        int     `json:"t_end" yaml:"t_end"`
	FinalNCheck float64 `json:"final_n_check" yaml:"final_n_check"`
}

// Extract computes Metrics from t. It does not modify t.
func Extract(t Trajectory) (Metrics, error) {
	if t.Days() == 0 {
		return Metrics{}, ErrEmptySequence
	}
	s, i, r := t.Susceptible(), t.Infectious(), t.Recovered()
	last := len(i) - 1

	m := Metrics{
		IMax:        i[0],
		TBreach:     t.BreachDays(),
		RInfinity:   r[last],
		TEnd:        last,
		FinalNCheck: s[last] + i[last] + r[last],
	}
	for day, v := range i {
		if v > m.IMax {
			m.IMax, m.TPeak = v, day
		}
	}
	for day, v := range i {
		if v < 1 {
			m.TEnd = day
			break
		}
	}
	return m, nil
}

// AsMap flattens m into named scalars.
func (m Metrics) AsMap() map[string]float64 {
	return map[string]float64{
		"I_max":         m.IMax,
		"T_peak":        float64(m.TPeak),
		"T_breach":      float64(m.TBreach),
		"R_infinity":    m.RInfinity,
		"T_end":         float64(m.TEnd),
		"Final_N_Check": m.FinalNCheck,
	}
}

// Drift is the relative conservation error |FinalNCheck - n| / n.
func Drift(m Metrics, n float64) float64 {
	if n == 0 {
		return 0
	}
	return math.Abs(m.FinalNCheck-n) / n
}
