package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sirsim/internal/admin"
	"sirsim/internal/logging"
)

var (
	serveOpts sweepOptions
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a sweep and serve the admin UI",
	Long:  "serve runs the scenario sweep once and exposes the results, trajectories and charts over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, slog.Default())

		out, err := runSweep(ctx, serveOpts)
		if err != nil {
			return err
		}
		srv := admin.NewServer(out.cfg, out.results, out.findings)
		return srv.Start(ctx, serveAddr)
	},
}

func init() {
	addSweepFlags(serveCmd, &serveOpts)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Admin UI listen address")
}
