// Package chart renders infection curves and overload comparisons.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sirsim/internal/scenario"
)

// Format selects the output encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data")

const (
	width      = 1024
	height     = 512
	barWidth   = 60
	barSpacing = 40
)

var palette = []drawing.Color{
	chart.ColorRed,
	chart.ColorBlue,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
	{R: 128, G: 0, B: 128, A: 255},
	chart.ColorCyan,
}

var capacityColor = drawing.Color{R: 90, G: 90, B: 90, A: 255}

// Series is one labelled infectious curve, indexed by day.
type Series struct {
	Name   string
	Values []float64
}

// FromResult returns the infectious curve of a run.
func FromResult(r scenario.Result) Series {
	return Series{Name: r.Scenario.Label, Values: r.I}
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case PNG, "":
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("chart: unsupported format %q", f)
	}
}

func days(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// Infectious plots I over time for every series with a dashed horizontal
// line at capacity. capacity <= 0 omits the line.
func Infectious(w io.Writer, f Format, title string, series []Series, capacity float64) error {
	rp, err := f.provider()
	if err != nil {
		return err
	}
	var out []chart.Series
	longest := 0
	for i, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		longest = max(longest, len(s.Values))
		out = append(out, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: days(len(s.Values)),
			YValues: s.Values,
			Style:   chart.Style{StrokeColor: palette[i%len(palette)], StrokeWidth: 3.0},
		})
	}
	if len(out) == 0 {
		return ErrNoData
	}
	if capacity > 0 {
		out = append(out, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Capacity (C=%.0f)", capacity),
			XValues: []float64{0, float64(longest - 1)},
			YValues: []float64{capacity, capacity},
			Style: chart.Style{
				StrokeColor:     capacityColor,
				StrokeWidth:     2.0,
				StrokeDashArray: []float64{8.0, 6.0},
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Day",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name: "Infectious (I)",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Series: out,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(rp, w)
}

// OverloadBars plots the peak overload factor I_max/C of every run. Values
// above 1 breached capacity.
func OverloadBars(w io.Writer, f Format, results []scenario.Result) error {
	rp, err := f.provider()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(results))
	for i, r := range results {
		color := chart.ColorGreen
		if r.MaxOverloadFactor > 1 {
			color = chart.ColorRed
		}
		bars[i] = chart.Value{
			Label: r.Scenario.Label,
			Value: r.MaxOverloadFactor,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	graph := chart.BarChart{
		Title:      "Maximum overload factor I_max / C (crisis above 1.0)",
		Width:      max(width, len(bars)*(barWidth+barSpacing)+200),
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: bars,
	}
	return graph.Render(rp, w)
}

type panel struct {
	file     string
	title    string
	labels   []string
	capLabel string
}

var panels = []panel{
	{
		file:     "policy_vs_crisis",
		title:    "Policy intervention vs crisis",
		labels:   []string{scenario.Unconstrained, scenario.Crisis, scenario.Policy},
		capLabel: scenario.Crisis,
	},
	{
		file:     "quicker_recovery",
		title:    "Impact of quicker recovery",
		labels:   []string{scenario.Crisis, scenario.QuickerRecovery},
		capLabel: scenario.Crisis,
	},
	{
		file:     "tradeoff",
		title:    "Resource allocation trade-off",
		labels:   []string{scenario.Crisis, scenario.TradeoffCapacity, scenario.TradeoffBeta},
		capLabel: scenario.Crisis,
	},
}

// RenderAll writes the comparison panels and the overload bar chart into dir
// and returns the written paths. Panels whose runs are missing are skipped.
func RenderAll(dir string, f Format, results []scenario.Result) ([]string, error) {
	if f == "" {
		f = PNG
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, p := range panels {
		var series []Series
		for _, l := range p.labels {
			if r, ok := scenario.Find(results, l); ok {
				series = append(series, FromResult(r))
			}
		}
		if len(series) < 2 {
			continue
		}
		capacity := 0.0
		if r, ok := scenario.Find(results, p.capLabel); ok {
			capacity = r.Params.Capacity
		}
		path := filepath.Join(dir, p.file+"."+string(f))
		if err := renderFile(path, func(w io.Writer) error {
			return Infectious(w, f, p.title, series, capacity)
		}); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(results) > 0 {
		path := filepath.Join(dir, "overload_factor."+string(f))
		if err := renderFile(path, func(w io.Writer) error {
			return OverloadBars(w, f, results)
		}); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func renderFile(path string, render func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(out); err != nil {
		out.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
