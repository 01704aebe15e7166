package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netprobe/netprobe-ui/internal/ui/navigation"
	"github.com/netprobe/netprobe-ui/internal/ui/server"
	"github.com/netprobe/netprobe-ui/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	e.logger.Info("Starting UI server", slog.String("version", version.Get().Version))

	client, err := e.apiClient()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(e.cfg, e.logger, client, navigation.Default(e.cfg.LanguageTag()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		e.logger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	e.logger.Info("UI server shutdown complete")
	return nil
}
