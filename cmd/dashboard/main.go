package main

import (
	"log/slog"
	"os"

	"sirsim/internal/dashboard"
)

func main() {
	out := os.Getenv("DASHBOARD_OUT_DIR")
	if out == "" {
		out = "build"
	}
	if err := dashboard.Render(out); err != nil {
		slog.Error("render dashboards", "error", err)
		os.Exit(1)
	}
}
