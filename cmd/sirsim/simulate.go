package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sirsim/internal/chart"
	"sirsim/internal/record"
	"sirsim/internal/report"
	"sirsim/internal/scenario"
	"sirsim/internal/sir"
)

var (
	simParams sir.Params
	simDays   int
	simJSON   bool
	simChart  string
	simLabel  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a single simulation",
	Long:  "simulate runs one SIR trajectory from flags and prints its metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := simulateOnce(simLabel, simParams, simDays)
		if err != nil {
			return err
		}
		if simJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{
				"scenario":            res.Scenario.Label,
				"params":              res.Params,
				"metrics":             res.Metrics.AsMap(),
				"r0":                  res.R0,
				"max_overload_factor": res.MaxOverloadFactor,
			}); err != nil {
				return err
			}
		} else {
			table := report.NewTableWriter()
			if err := table.WriteSummary(record.Summary(res, time.Time{})); err != nil {
				return err
			}
			if err := table.Close(); err != nil {
				return err
			}
		}
		if simChart != "" {
			return writeChart(simChart, res)
		}
		return nil
	},
}

func simulateOnce(label string, p sir.Params, days int) (scenario.Result, error) {
	s := scenario.Scenario{Label: label}
	return scenario.Simulate(s, p, days)
}

func writeChart(path string, res scenario.Result) error {
	format := chart.PNG
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		format = chart.SVG
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.Infectious(f, format, res.Scenario.Label, []chart.Series{chart.FromResult(res)}, res.Params.Capacity); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

func init() {
	f := simulateCmd.Flags()
	f.Float64Var(&simParams.Population, "population", 100000, "Total population N")
	f.Float64Var(&simParams.InitialInfected, "initial-infected", 100, "Infectious individuals on day 0")
	f.Float64Var(&simParams.Beta, "beta", 0.3, "Transmission rate per day")
	f.Float64Var(&simParams.GammaBase, "gamma", 1.0/14.0, "Recovery rate per day when under capacity")
	f.Float64Var(&simParams.Capacity, "capacity", 500, "Treatment capacity C")
	f.IntVar(&simDays, "days", 150, "Number of days to simulate")
	f.BoolVar(&simJSON, "json", false, "Print metrics as JSON")
	f.StringVar(&simChart, "chart", "", "Write an infectious curve chart to this file (.png or .svg)")
	f.StringVar(&simLabel, "label", "simulation", "Run label")
}
